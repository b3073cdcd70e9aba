// annotations.go defines the annotation types, argument constants, and parser for the
// Oxy WGSL shader pre-processor. Annotations are single-line WGSL comments prefixed
// with @oxy: that drive struct injection and bind group declaration.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct definition
	// into the shader at the annotation site. It produces no declaration.
	//
	// Syntax: //@oxy:include <struct_type>
	//
	// Example: //@oxy:include frame
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration
	// and appends an Annotation to the PreProcessor's declarations list, so the renderer
	// can build the matching bind group layout.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@oxy:group 0 0 uniform frame frame
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// Annotation represents a single parsed @oxy: annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed (include or group).
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include: [0] = struct type key (e.g. "frame")
	//   - group:   [0] = address space, [1] = var name, [2] = struct type key
	Args []AnnotationArg

	// Line is the 1-based line number in the unprocessed WGSL source where this annotation
	// was found. Used for error reporting.
	Line int

	// Group is the @group index for group annotations. Nil for include annotations.
	Group *int

	// Binding is the @binding index for group annotations. Nil for include annotations.
	Binding *int
}

// AnnotationArg is a typed string constant used as an argument in annotations.
type AnnotationArg string

// ── Struct type arguments ──────────────────────────────────────────────────────

const (
	// AnnotationArgFrame is the per-frame uniform (frame.GPUFrameUniform).
	AnnotationArgFrame AnnotationArg = "frame"
)

// ── Address space arguments ────────────────────────────────────────────────────

const (
	AnnotationArgUniform AnnotationArg = "uniform"
	annotationArgStorage AnnotationArg = "storage_read"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgFrame,
}

var validAddressSpaces = []AnnotationArg{
	AnnotationArgUniform,
	annotationArgStorage,
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch args[0] {
	case string(annotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case string(AnnotationTypeBindingGroup):
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires exactly five arguments (group, binding, address space, var name, struct type)", lineNum)
		}
		groupInt, err := strconv.Atoi(args[1])
		if err != nil || groupInt < 0 {
			return nil, fmt.Errorf("line %d: invalid group number %q in @oxy group annotation", lineNum, args[1])
		}
		bindingInt, err := strconv.Atoi(args[2])
		if err != nil || bindingInt < 0 {
			return nil, fmt.Errorf("line %d: invalid binding number %q in @oxy group annotation", lineNum, args[2])
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[5])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy group annotation", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
