package main

import (
	"fmt"
	"io"

	"github.com/davidrios/openxr-device-simulator/space"
	"github.com/davidrios/openxr-device-simulator/swapchain"
)

func formatsCmd(stdout io.Writer) error {
	fmt.Fprintln(stdout, "swapchain formats (preferred first):")
	for _, f := range swapchain.Formats() {
		fmt.Fprintf(stdout, "  %v\n", f)
	}
	fmt.Fprintln(stdout, "reference spaces:")
	for _, t := range space.ReferenceTypes() {
		fmt.Fprintf(stdout, "  %s\n", t)
	}
	return nil
}
