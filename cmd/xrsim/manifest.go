package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sugawarayuuta/sonnet"

	xrsim "github.com/davidrios/openxr-device-simulator"
)

// manifestVersion is the loader manifest schema the runtime writes.
const manifestVersion = "1.0.0"

// Manifest is the JSON file a loader reads to find the runtime library.
type Manifest struct {
	FileFormatVersion string          `json:"file_format_version"`
	Runtime           ManifestRuntime `json:"runtime"`
}

// ManifestRuntime names the runtime and its shared library.
type ManifestRuntime struct {
	Name        string `json:"name"`
	LibraryPath string `json:"library_path"`
}

// NewManifest returns the manifest for a runtime library at libPath.
func NewManifest(libPath string) Manifest {
	return Manifest{
		FileFormatVersion: manifestVersion,
		Runtime:           ManifestRuntime{Name: xrsim.RuntimeName, LibraryPath: libPath},
	}
}

// encodeManifest marshals m and checks the result reads back unchanged.
func encodeManifest(m Manifest) ([]byte, error) {
	data, err := sonnet.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	var back Manifest
	if err := sonnet.Unmarshal(data, &back); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if back != m {
		return nil, fmt.Errorf("manifest changed in round trip: %+v", back)
	}
	return append(data, '\n'), nil
}

func manifestCmd(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("manifest", flag.ContinueOnError)
	out := fs.String("o", "", "output file (default stdout)")
	lib := fs.String("lib", "./libxrsim.so", "runtime library path recorded in the manifest")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := encodeManifest(NewManifest(*lib))
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(*out, data, 0o644)
}
