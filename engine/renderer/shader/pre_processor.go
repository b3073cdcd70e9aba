// pre_processor.go implements the Oxy WGSL shader pre-processor. It scans shader
// source code for @oxy: annotations, replaces them with generated WGSL declarations
// or injected struct source, and collects the binding declarations the renderer
// turns into bind group layouts.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-tides/engine/frame"
)

// registryEntry pairs a WGSL struct source string (embedded from a .wgsl asset file)
// with the resolved WGSL type name used in generated @group/@binding declarations.
type registryEntry struct {
	// Source is the raw WGSL struct definition text injected by @oxy:include.
	Source string

	// Type is the WGSL type name emitted in @oxy:group declarations.
	Type string

	// Size is the serialized size of the matching Go GPU type in bytes.
	Size uint64
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string

	// declarations accumulates group annotations during a Process call.
	declarations []Annotation
}

// PreProcessor processes raw WGSL shader source code containing @oxy: annotations.
type PreProcessor interface {
	// Process replaces @oxy:include annotations with the registered struct source and
	// @oxy:group annotations with generated @group/@binding declarations. The declarations
	// list is reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations to be processed
	//
	// Returns:
	//   - string: the processed WGSL shader source code with annotations replaced
	//   - error: an error if any annotation is malformed, references an unknown type,
	//     or declares the same group and binding twice
	Process(source string) (string, error)

	// Declarations returns the group annotations collected during the most recent call to
	// Process, in source order.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last Process call
	Declarations() []Annotation

	// StructSize returns the serialized size of a registered struct type.
	//
	// Parameters:
	//   - arg: the struct type key
	//
	// Returns:
	//   - uint64: size in bytes, or 0 if the type is not registered
	StructSize(arg AnnotationArg) uint64
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with all registered struct types and
// address space mappings pre-populated.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgFrame: {Source: frame.GPUFrameUniformSource, Type: "FrameUniform", Size: frame.GPUFrameUniformSize},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			AnnotationArgUniform: "var<uniform>",
			annotationArgStorage: "var<storage, read>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	included := make(map[AnnotationArg]bool)
	seen := make(map[[2]int]int)

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			// A second include of the same struct would redeclare it.
			if included[a.Args[0]] {
				continue
			}
			included[a.Args[0]] = true
			out = append(out, strings.TrimRight(p.structRegistry[a.Args[0]].Source, "\n"))
		case AnnotationTypeBindingGroup:
			key := [2]int{*a.Group, *a.Binding}
			if prev, dup := seen[key]; dup {
				return "", fmt.Errorf("line %d: group %d binding %d already declared on line %d", i+1, key[0], key[1], prev)
			}
			seen[key] = i + 1

			entry := p.structRegistry[a.Args[2]]
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, p.addressSpaceRegistry[a.Args[0]], a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

func (p *preProcessor) StructSize(arg AnnotationArg) uint64 {
	return p.structRegistry[arg].Size
}
