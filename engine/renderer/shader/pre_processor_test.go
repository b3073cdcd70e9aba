package shader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-tides/engine/frame"
)

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantNil  bool
		wantType AnnotationType
		wantErr  string
	}{
		{name: "plain code", line: "let x = 1.0;", wantNil: true},
		{name: "plain comment", line: "// sum of sines", wantNil: true},
		{name: "prefix outside comment", line: "let s = \"@oxy:include frame\";", wantNil: true},
		{name: "include", line: "  //@oxy:include frame", wantType: annotationTypeInclude},
		{name: "group", line: "//@oxy:group 0 2 uniform frame frame", wantType: AnnotationTypeBindingGroup},
		{name: "empty", line: "//@oxy:", wantErr: "empty"},
		{name: "unknown type", line: "//@oxy:provider 0 0 frame", wantErr: "unknown @oxy annotation type"},
		{name: "unknown struct", line: "//@oxy:include camera", wantErr: "unknown struct type"},
		{name: "group arity", line: "//@oxy:group 0 0 uniform frame", wantErr: "exactly five"},
		{name: "negative binding", line: "//@oxy:group 0 -1 uniform frame frame", wantErr: "invalid binding"},
		{name: "bad address space", line: "//@oxy:group 0 0 private frame frame", wantErr: "unknown address space"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnnotation(tt.line, 7)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("parseAnnotation() error = %v, want containing %q", err, tt.wantErr)
				}
				if !strings.Contains(err.Error(), "line 7") {
					t.Errorf("error %q does not name the line", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnnotation() error = %v", err)
			}
			if tt.wantNil {
				if a != nil {
					t.Fatalf("parseAnnotation() = %+v, want nil", a)
				}
				return
			}
			if a == nil || a.Type != tt.wantType || a.Line != 7 {
				t.Fatalf("parseAnnotation() = %+v", a)
			}
		})
	}
}

func TestProcess(t *testing.T) {
	src := strings.Join([]string{
		"//@oxy:include frame",
		"//@oxy:include frame",
		"//@oxy:group 0 0 uniform frame frame",
		"@vertex fn vertex_main() {}",
	}, "\n")

	pp := NewPreProcessor()
	out, err := pp.Process(src)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if n := strings.Count(out, "struct FrameUniform"); n != 1 {
		t.Errorf("FrameUniform declared %d times, want 1", n)
	}
	if !strings.Contains(out, strings.TrimRight(frame.GPUFrameUniformSource, "\n")) {
		t.Error("frame uniform source not injected")
	}
	if !strings.Contains(out, "@group(0) @binding(0) var<uniform> frame: FrameUniform;") {
		t.Errorf("binding declaration missing:\n%s", out)
	}
	if !strings.HasSuffix(out, "@vertex fn vertex_main() {}") {
		t.Error("non-annotation lines must pass through")
	}

	decls := pp.Declarations()
	if len(decls) != 1 || *decls[0].Group != 0 || *decls[0].Binding != 0 || decls[0].Args[1] != "frame" {
		t.Fatalf("Declarations() = %+v", decls)
	}
	if got := pp.StructSize(decls[0].Args[2]); got != frame.GPUFrameUniformSize {
		t.Errorf("StructSize = %d, want %d", got, frame.GPUFrameUniformSize)
	}
}

func TestProcessResetsDeclarations(t *testing.T) {
	pp := NewPreProcessor()
	if _, err := pp.Process("//@oxy:group 0 0 uniform frame frame"); err != nil {
		t.Fatal(err)
	}
	if _, err := pp.Process("fn f() {}"); err != nil {
		t.Fatal(err)
	}
	if n := len(pp.Declarations()); n != 0 {
		t.Errorf("Declarations() after second Process = %d, want 0", n)
	}
}

func TestProcessDuplicateBinding(t *testing.T) {
	src := "//@oxy:group 0 0 uniform a frame\n//@oxy:group 0 0 uniform b frame"
	_, err := NewPreProcessor().Process(src)
	if err == nil || !strings.Contains(err.Error(), "already declared on line 1") {
		t.Fatalf("Process() error = %v", err)
	}
}
