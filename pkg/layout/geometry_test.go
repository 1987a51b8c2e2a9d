package layout

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestScaleToFit(t *testing.T) {
	box := Rect{X: 40, Y: 150, W: 515.27, H: 571.89}

	tests := []struct {
		name      string
		img       Size
		wantScale float64
	}{
		{"fits by width", Size{1000, 500}, 515.27 / 1000},
		{"fits by height", Size{400, 900}, 571.89 / 900},
		{"minimum clamp would overflow", Size{400, 1000}, 571.89 / 1000},
		{"tiny image capped", Size{100, 100}, MaxImageScale},
		{"huge image refit below minimum", Size{2000, 4000}, 571.89 / 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, scale := ScaleToFit(tt.img, box, MinImageScale, MaxImageScale)
			if !near(scale, tt.wantScale) {
				t.Fatalf("scale = %v, want %v", scale, tt.wantScale)
			}
			if r.Bottom() > box.Bottom()+1e-6 {
				t.Errorf("image bottom %v overflows box bottom %v", r.Bottom(), box.Bottom())
			}
			if !near(r.X+r.W/2, box.X+box.W/2) {
				t.Errorf("image not centred: x=%v w=%v", r.X, r.W)
			}
			if !near(r.W/r.H, tt.img.W/tt.img.H) {
				t.Errorf("aspect ratio changed: %v vs %v", r.W/r.H, tt.img.W/tt.img.H)
			}
		})
	}
}

func TestScaleToFitDegenerate(t *testing.T) {
	if _, scale := ScaleToFit(Size{}, Rect{W: 10, H: 10}, MinImageScale, MaxImageScale); scale != 0 {
		t.Errorf("empty image scale = %v, want 0", scale)
	}
}

func TestInstructionsTop(t *testing.T) {
	tests := []struct {
		name                 string
		infoBottom, qrBottom float64
		want                 float64
	}{
		{"qr codes end lower", 300, 380, 420},
		{"text ends lower", 450, 380, 470},
		{"tie goes to the larger gap", 400, 400, 440},
	}

	for _, tt := range tests {
		if got := InstructionsTop(tt.infoBottom, tt.qrBottom, 20, 40); got != tt.want {
			t.Errorf("%s: InstructionsTop = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCenterIn(t *testing.T) {
	if got := CenterIn(100, 300, 100); got != 150 {
		t.Errorf("CenterIn = %v, want 150", got)
	}
	if got := CenterIn(100, 150, 100); got != 100 {
		t.Errorf("too small gap should start at top, got %v", got)
	}
}
