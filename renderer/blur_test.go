package renderer

import (
	"errors"
	"slices"
	"testing"

	"github.com/richinsley/gobloom/graphics"
	"github.com/richinsley/gobloom/graphics/graphicstest"
	"github.com/richinsley/gobloom/shader"
)

func newTestBlur(t *testing.T, dev *graphicstest.Device, size graphics.Size, opts ...BlurOption) *BlurPass {
	t.Helper()

	quad, err := NewFullScreenQuad(dev)
	if err != nil {
		t.Fatalf("NewFullScreenQuad() = %v", err)
	}

	blur, err := NewBlurPass(dev, size, quad, 0.25, opts...)
	if err != nil {
		t.Fatalf("NewBlurPass() = %v", err)
	}

	return blur
}

func newTestInput(t *testing.T, dev *graphicstest.Device, size graphics.Size) graphics.RenderTarget {
	t.Helper()

	input, err := dev.NewRenderTarget(intermediateDescriptor(size))
	if err != nil {
		t.Fatalf("NewRenderTarget() = %v", err)
	}

	return input
}

func TestBlurSchedule(t *testing.T) {
	tests := []struct {
		name       string
		iterations int
		seed       float32
		writes     []int
		reads      []int
		radii      []float32
	}{
		{
			name:       "default",
			iterations: 2,
			seed:       0.25,
			writes:     []int{1, 0, 1, 0, 1},
			reads:      []int{ReadInput, 1, 0, 1, 0},
			radii:      []float32{0.25, 0.25, 0.25, 0.75, 0.75},
		},
		{
			name:       "single iteration",
			iterations: 1,
			seed:       0.25,
			writes:     []int{1, 0, 1},
			reads:      []int{ReadInput, 1, 0},
			radii:      []float32{0.25, 0.25, 0.25},
		},
		{
			name:       "three iterations",
			iterations: 3,
			seed:       0.5,
			writes:     []int{1, 0, 1, 0, 1, 0, 1},
			reads:      []int{ReadInput, 1, 0, 1, 0, 1, 0},
			radii:      []float32{0.5, 0.5, 0.5, 1, 1, 1.5, 1.5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dev := graphicstest.NewDevice()
			blur := newTestBlur(t, dev, graphics.Size{Width: 320, Height: 180},
				WithIterations(tc.iterations),
				WithSeedRadius(tc.seed),
			)

			var writes, reads []int
			var radii []float32
			for _, step := range blur.Schedule() {
				writes = append(writes, step.Write)
				reads = append(reads, step.Read)
				radii = append(radii, step.Radius)
			}

			if !slices.Equal(writes, tc.writes) {
				t.Errorf("writes = %v, want %v", writes, tc.writes)
			}

			if !slices.Equal(reads, tc.reads) {
				t.Errorf("reads = %v, want %v", reads, tc.reads)
			}

			if !slices.Equal(radii, tc.radii) {
				t.Errorf("radii = %v, want %v", radii, tc.radii)
			}
		})
	}
}

func TestBlurRejectsZeroIterations(t *testing.T) {
	dev := graphicstest.NewDevice()

	quad, err := NewFullScreenQuad(dev)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewBlurPass(dev, graphics.Size{Width: 4, Height: 4}, quad, 0.25, WithIterations(0)); err == nil {
		t.Fatalf("NewBlurPass() with zero iterations succeeded")
	}

	if live := dev.Live(); len(live) != 0 {
		t.Errorf("%d targets still live", len(live))
	}
}

func TestBlurRun(t *testing.T) {
	dev := graphicstest.NewDevice()
	size := graphics.Size{Width: 320, Height: 180}

	input := newTestInput(t, dev, graphics.Size{Width: 1280, Height: 720})
	blur := newTestBlur(t, dev, size)

	blur.Run(dev, input.Color(BrightAttachment))

	draws := dev.DrawsWith(shader.Blur().Label)
	schedule := blur.Schedule()
	if len(draws) != len(schedule) {
		t.Fatalf("got %d draws, want %d", len(draws), len(schedule))
	}

	for idx, step := range schedule {
		draw := draws[idx]

		if draw.Target != blur.buffers[step.Write] {
			t.Errorf("draw %d wrote %q, want buffer %d", idx, draw.Target.Label(), step.Write)
		}

		if draw.Target.Size() != size {
			t.Errorf("draw %d into target of size %s, want %s", idx, draw.Target.Size(), size)
		}

		var want graphics.Texture = input.Color(BrightAttachment)
		if step.Read != ReadInput {
			want = blur.buffers[step.Read].Color(0)
		}

		if got := draw.Textures[shader.UniformBlurTexture]; got != want {
			t.Errorf("draw %d sampled %q[%d]", idx, got.Target.Label(), got.Index)
		}

		if got := draw.Floats[shader.UniformRadius]; got != step.Radius {
			t.Errorf("draw %d radius = %v, want %v", idx, got, step.Radius)
		}
	}

	if blur.Texture() != blur.buffers[BlurBufferCount-1].Color(0) {
		t.Errorf("Texture() is not the last buffer")
	}

	last := draws[len(draws)-1].Target
	if blur.Texture() != last.Color(0) {
		t.Errorf("Texture() is not the target of the last draw")
	}
}

func TestBlurRunDeterministic(t *testing.T) {
	dev := graphicstest.NewDevice()
	input := newTestInput(t, dev, graphics.Size{Width: 64, Height: 64})
	blur := newTestBlur(t, dev, graphics.Size{Width: 16, Height: 16})

	// some content to blur
	input.(*graphicstest.RenderTarget).Color(BrightAttachment).(*graphicstest.Texture).Content = 42

	blur.Run(dev, input.Color(BrightAttachment))
	first := blur.Texture().(*graphicstest.Texture).Content

	blur.Run(dev, input.Color(BrightAttachment))
	second := blur.Texture().(*graphicstest.Texture).Content

	if first == 0 || first != second {
		t.Errorf("contents of two runs differ: %x != %x", first, second)
	}

	input.(*graphicstest.RenderTarget).Color(BrightAttachment).(*graphicstest.Texture).Content = 43
	blur.Run(dev, input.Color(BrightAttachment))

	if third := blur.Texture().(*graphicstest.Texture).Content; third == first {
		t.Errorf("different input gave the same result")
	}
}

func TestBlurResizeBuffers(t *testing.T) {
	dev := graphicstest.NewDevice()
	blur := newTestBlur(t, dev, graphics.Size{Width: 320, Height: 180})
	old := blur.buffers

	want := graphics.Size{Width: 480, Height: 270}
	if err := blur.ResizeBuffers(dev, want); err != nil {
		t.Fatalf("ResizeBuffers() = %v", err)
	}

	for idx, rt := range old {
		if !rt.(*graphicstest.RenderTarget).Released {
			t.Errorf("old buffer %d not released", idx)
		}
	}

	for idx, rt := range blur.buffers {
		if rt.Size() != want {
			t.Errorf("buffer %d size = %s, want %s", idx, rt.Size(), want)
		}
	}

	if blur.Size() != want {
		t.Errorf("Size() = %s, want %s", blur.Size(), want)
	}

	if live := dev.Live(); len(live) != BlurBufferCount {
		t.Errorf("%d live targets, want %d", len(live), BlurBufferCount)
	}
}

func TestBlurResizeBuffersFailure(t *testing.T) {
	dev := graphicstest.NewDevice()
	size := graphics.Size{Width: 320, Height: 180}
	blur := newTestBlur(t, dev, size)
	old := blur.buffers

	errOutOfMemory := errors.New("out of memory")
	dev.FailTarget = func(desc graphics.TargetDescriptor) error {
		if desc.Label == "BlurBuffer1" {
			return errOutOfMemory
		}
		return nil
	}

	err := blur.ResizeBuffers(dev, graphics.Size{Width: 640, Height: 360})

	var allocErr *ResourceAllocationError
	if !errors.As(err, &allocErr) {
		t.Fatalf("ResizeBuffers() = %v, want ResourceAllocationError", err)
	}

	if allocErr.Resource != "BlurBuffer1" || !errors.Is(err, errOutOfMemory) {
		t.Errorf("unexpected error %v", err)
	}

	if blur.buffers != old || blur.Size() != size {
		t.Errorf("buffers replaced on failed resize")
	}

	// the new buffer 0 is rolled back, only the old pair stays
	if live := dev.Live(); len(live) != BlurBufferCount {
		t.Errorf("%d live targets, want %d", len(live), BlurBufferCount)
	}
}

func TestBlurRelease(t *testing.T) {
	dev := graphicstest.NewDevice()
	blur := newTestBlur(t, dev, graphics.Size{Width: 8, Height: 8})

	blur.Release()

	if live := dev.Live(); len(live) != 0 {
		t.Errorf("%d targets still live", len(live))
	}

	for _, p := range dev.Programs {
		if !p.Released {
			t.Errorf("program %q not released", p.Source.Label)
		}
	}
}
