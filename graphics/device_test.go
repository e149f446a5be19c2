package graphics

import (
	"errors"
	"testing"
)

func TestTargetDescriptorValidate(t *testing.T) {
	hdr := []PixelFormat{FormatR11G11B10F, FormatR11G11B10F}

	tests := []struct {
		name string
		desc TargetDescriptor
		want error
	}{
		{"intermediate", TargetDescriptor{Size: Size{1280, 720}, Color: hdr, Depth: FormatDepth32F}, nil},
		{"color only", TargetDescriptor{Size: Size{320, 180}, Color: hdr[:1]}, nil},
		{"depth only", TargetDescriptor{Size: Size{1, 1}, Depth: FormatDepth32F}, nil},
		{"zero width", TargetDescriptor{Size: Size{0, 720}, Color: hdr}, ErrInvalidSize},
		{"zero height", TargetDescriptor{Size: Size{1280, 0}, Color: hdr}, ErrInvalidSize},
		{"no attachments", TargetDescriptor{Size: Size{4, 4}}, ErrUnsupportedFormat},
		{"depth as color", TargetDescriptor{Size: Size{4, 4}, Color: []PixelFormat{FormatDepth32F}}, ErrUnsupportedFormat},
		{"color as depth", TargetDescriptor{Size: Size{4, 4}, Depth: FormatRGBA8}, ErrUnsupportedFormat},
		{"too many", TargetDescriptor{Size: Size{4, 4}, Color: make([]PixelFormat, MaxColorAttachments+1)}, ErrTooManyAttachments},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.desc.Validate()
			if tc.want == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}

			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestPixelFormatIsFloat(t *testing.T) {
	for _, f := range []PixelFormat{FormatR11G11B10F, FormatRGB32F, FormatRGBA32F} {
		if !f.IsFloat() {
			t.Errorf("%s.IsFloat() = false", f)
		}
	}

	if FormatRGBA8.IsFloat() {
		t.Errorf("RGBA8.IsFloat() = true")
	}
}

func TestSizeString(t *testing.T) {
	if got := (Size{320, 180}).String(); got != "320x180" {
		t.Errorf("String() = %q", got)
	}

	if !(Size{0, 10}).Empty() || (Size{1, 1}).Empty() {
		t.Errorf("Empty() broken")
	}
}
