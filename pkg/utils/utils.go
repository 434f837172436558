// pkg/utils/utils.go

package utils

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NewProgress returns a progress container. Bars are only drawn when stdout
// is a terminal and quiet is false.
func NewProgress(quiet bool) *mpb.Progress {
	if !quiet && isatty.IsTerminal(os.Stdout.Fd()) {
		return mpb.New(mpb.WithWidth(64))
	}
	return mpb.New(mpb.WithWidth(64), mpb.WithOutput(nil))
}

// NewPercentBar adds a bar counting from 0 to 100, the title will appears at
// the head of the progress bar
func NewPercentBar(progress *mpb.Progress, title string) *mpb.Bar {
	return progress.AddBar(100,
		mpb.PrependDecorators(
			decor.Name(title, decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Percentage(decor.WC{W: 5}), "done"),
		),
	)
}
