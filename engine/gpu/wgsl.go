package gpu

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrShaderLayout is returned when a shader declares a binding the swarm pipeline cannot provide.
var ErrShaderLayout = errors.New("gpu: unsupported shader layout")

var (
	// @group(G) @binding(B) var<space> name: type;
	bindingDeclRegex   = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\s+fn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\s+fn\s+(\w+)`)
	blockCommentRegex  = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// ShaderLayout is what the pipeline needs to know about a WGSL program: its entry points and the
// buffer bindings of group 0, keyed by variable name.
type ShaderLayout struct {
	VertexEntry   string
	FragmentEntry string
	Entries       []wgpu.BindGroupLayoutEntry
	Names         map[string]uint32
}

// ParseShaderLayout scans WGSL source for entry points and group 0 buffer bindings.
// Every binding is made visible to the vertex stage, which is where the swarm shader reads particle data.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - ShaderLayout: entry points and sorted layout entries
//   - error: ErrShaderLayout if an entry point is missing or a binding is not a buffer in group 0
func ParseShaderLayout(source string) (ShaderLayout, error) {
	cleaned := stripComments(source)
	layout := ShaderLayout{Names: make(map[string]uint32)}

	if m := vertexEntryRegex.FindStringSubmatch(cleaned); m != nil {
		layout.VertexEntry = m[1]
	}
	if m := fragmentEntryRegex.FindStringSubmatch(cleaned); m != nil {
		layout.FragmentEntry = m[1]
	}
	if layout.VertexEntry == "" || layout.FragmentEntry == "" {
		return ShaderLayout{}, fmt.Errorf("%w: missing vertex or fragment entry point", ErrShaderLayout)
	}

	for _, m := range bindingDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		space, name := strings.TrimSpace(m[3]), m[4]
		if group != 0 {
			return ShaderLayout{}, fmt.Errorf("%w: %s is in group %d", ErrShaderLayout, name, group)
		}
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: wgpu.ShaderStageVertex,
		}
		switch {
		case space == "uniform":
			entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		case strings.HasPrefix(space, "storage") && strings.Contains(space, "read_write"):
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		case strings.HasPrefix(space, "storage"):
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		default:
			return ShaderLayout{}, fmt.Errorf("%w: %s is not a buffer binding", ErrShaderLayout, name)
		}
		layout.Entries = append(layout.Entries, entry)
		layout.Names[name] = uint32(binding)
	}

	sort.Slice(layout.Entries, func(i, j int) bool {
		return layout.Entries[i].Binding < layout.Entries[j].Binding
	})
	return layout, nil
}

// stripComments removes block and line comments so they cannot produce false matches.
func stripComments(source string) string {
	source = blockCommentRegex.ReplaceAllString(source, "")
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
