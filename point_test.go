package giant

import "testing"

func TestPoint_AddSub(t *testing.T) {
	if got := Pt(1, 1).Add(Pt(2, 3)).Sub(Pt(0.5, 1)); got != Pt(2.5, 3) {
		t.Errorf("Add/Sub = %v, want (2.5, 3)", got)
	}
}

func TestPoint_Approx(t *testing.T) {
	if !Pt(1, 2).Approx(Pt(1+1e-13, 2-1e-13), 1e-12) {
		t.Error("Approx within eps = false, want true")
	}
	if Pt(1, 2).Approx(Pt(1, 2.1), 1e-12) {
		t.Error("Approx beyond eps = true, want false")
	}
}

func TestPoint_MinMax(t *testing.T) {
	p, q := Pt(1, 5), Pt(3, -2)
	if got := p.Min(q); got != Pt(1, -2) {
		t.Errorf("Min = %v, want (1, -2)", got)
	}
	if got := p.Max(q); got != Pt(3, 5) {
		t.Errorf("Max = %v, want (3, 5)", got)
	}
}
