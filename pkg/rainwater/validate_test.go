package rainwater

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		heights []int
		wantErr bool
		index   int
	}{
		{"empty", nil, false, 0},
		{"valid", []int{0, 1, 2}, false, 0},
		{"first negative", []int{-1, 2}, true, 0},
		{"later negative", []int{1, 2, -3, -4}, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.heights)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, ErrNegativeHeight) {
				t.Errorf("error %v is not ErrNegativeHeight", err)
			}
			var herr *HeightError
			if !errors.As(err, &herr) {
				t.Fatalf("error %T is not *HeightError", err)
			}
			if herr.Index != tt.index {
				t.Errorf("Index = %d, want %d", herr.Index, tt.index)
			}
		})
	}
}

func TestParseHeights(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"", []int{}, false},
		{"   ", []int{}, false},
		{"[]", []int{}, false},
		{"0,1,0,2", []int{0, 1, 0, 2}, false},
		{"[4, 2, 3]", []int{4, 2, 3}, false},
		{"3 0 0\t0\n3", []int{3, 0, 0, 0, 3}, false},
		{"1,,2", []int{1, 2}, false},
		{"1,-2", []int{1, -2}, false},
		{"1,x,2", nil, true},
		{"1.5", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHeights(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHeights(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHeight) {
					t.Errorf("error %v is not ErrInvalidHeight", err)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseHeights(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseHeights(%q)[%d] = %d, want %d", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseArgs(t *testing.T) {
	got, err := ParseArgs([]string{"0,1", "0", "2,1"})
	if err != nil {
		t.Fatalf("ParseArgs() error = %v", err)
	}
	want := []int{0, 1, 0, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("ParseArgs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseArgs()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    Method
		wantErr bool
	}{
		{"", MethodPrefix, false},
		{"prefix", MethodPrefix, false},
		{"Two-Pointer", MethodTwoPointer, false},
		{"two_pointer", MethodTwoPointer, false},
		{"stack", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMethod(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMethod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownMethod) {
			t.Errorf("ParseMethod(%q) error %v is not ErrUnknownMethod", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMethod_Trap(t *testing.T) {
	h := []int{4, 2, 0, 3, 2, 5}
	for _, m := range Methods() {
		if got := m.Trap(h); got != 9 {
			t.Errorf("%s.Trap() = %d, want 9", m, got)
		}
	}
}
