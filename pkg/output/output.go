// Package output delivers encoded images to the caller, either inline as
// base64 text or as a file on the local filesystem.
package output

import (
	"context"
	"encoding/base64"

	"github.com/matzehuels/svgmcp/pkg/encode"
)

// Result is the outcome of a successful conversion. Exactly one of
// FilePath and Base64Data is set.
type Result struct {
	FilePath   string `json:"file_path,omitempty"`
	Base64Data string `json:"base64_data,omitempty"`
	MIMEType   string `json:"mime_type"`
}

// Packager turns encoded bytes into a Result.
type Packager struct {
	// Dir is where files are created. Empty means os.TempDir().
	Dir string
	// Registry records emitted files. Nil means DefaultRegistry().
	Registry *Registry
}

// NewPackager returns a packager writing to dir and recording into the
// process-wide registry.
func NewPackager(dir string) *Packager {
	return &Packager{Dir: dir, Registry: DefaultRegistry()}
}

// Package returns data as standard base64 (no line wrapping) when
// returnBase64 is set, and otherwise writes it to a new file whose path is
// returned. The file outlives the call.
func (p *Packager) Package(ctx context.Context, data []byte, format encode.Format, returnBase64 bool) (*Result, error) {
	if returnBase64 {
		return &Result{
			Base64Data: base64.StdEncoding.EncodeToString(data),
			MIMEType:   format.MIMEType(),
		}, nil
	}

	reg := p.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	f, err := reg.Emit(ctx, p.Dir, format.Extension(), format.MIMEType(), data)
	if err != nil {
		return nil, err
	}
	return &Result{FilePath: f.Path, MIMEType: f.MIMEType}, nil
}
