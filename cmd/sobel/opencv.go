//go:build opencv

package main

import (
	"context"

	"github.com/dudk/sobel"
	"github.com/dudk/sobel/opencv"
)

func init() {
	decoders["opencv"] = func(_ context.Context, path string) (sobel.Source, error) {
		return opencv.NewSource(path)
	}
	displays["window"] = func(title string) (sobel.Sink, error) {
		return opencv.NewWindow(title), nil
	}
}
