package gpu

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestParseSwarmShaderLayout(t *testing.T) {
	layout, err := ParseShaderLayout(SwarmShaderSource)
	if err != nil {
		t.Fatalf("ParseShaderLayout: %v", err)
	}
	if layout.VertexEntry != "vs_main" || layout.FragmentEntry != "fs_main" {
		t.Errorf("entries = %q, %q", layout.VertexEntry, layout.FragmentEntry)
	}
	want := []struct {
		name    string
		binding uint32
		typ     wgpu.BufferBindingType
	}{
		{"view", 0, wgpu.BufferBindingTypeUniform},
		{"particles", 1, wgpu.BufferBindingTypeReadOnlyStorage},
		{"colors", 2, wgpu.BufferBindingTypeReadOnlyStorage},
	}
	if len(layout.Entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(layout.Entries), len(want))
	}
	for i, w := range want {
		if got := layout.Names[w.name]; got != w.binding {
			t.Errorf("binding of %s = %d, want %d", w.name, got, w.binding)
		}
		if e := layout.Entries[i]; e.Binding != w.binding || e.Buffer.Type != w.typ {
			t.Errorf("entry %d = binding %d type %v, want %d %v", i, e.Binding, e.Buffer.Type, w.binding, w.typ)
		}
	}
}

func TestParseShaderLayoutRejects(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"no fragment", "@vertex fn vs() {}"},
		{"texture binding", "@group(0) @binding(0) var tex: texture_2d<f32>;\n@vertex fn vs() {}\n@fragment fn fs() {}"},
		{"second group", "@group(1) @binding(0) var<uniform> u: vec4<f32>;\n@vertex fn vs() {}\n@fragment fn fs() {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseShaderLayout(tt.source); !errors.Is(err, ErrShaderLayout) {
				t.Errorf("err = %v, want ErrShaderLayout", err)
			}
		})
	}
}

func TestParseShaderLayoutIgnoresComments(t *testing.T) {
	src := `
// @group(0) @binding(5) var<uniform> ghost: vec4<f32>;
/* @group(0) @binding(6) var<uniform> ghost2: vec4<f32>; */
@group(0) @binding(0) var<storage, read_write> data: array<f32>;
@vertex fn vs() {}
@fragment fn fs() {}
`
	layout, err := ParseShaderLayout(src)
	if err != nil {
		t.Fatalf("ParseShaderLayout: %v", err)
	}
	if len(layout.Entries) != 1 || layout.Entries[0].Buffer.Type != wgpu.BufferBindingTypeStorage {
		t.Errorf("entries = %+v", layout.Entries)
	}
}
