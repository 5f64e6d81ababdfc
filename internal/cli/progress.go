package cli

import (
	"github.com/schollz/progressbar/v3"

	"github.com/railatlas/railatlas/internal/unit"
)

// extractProgress renders a per-extractor progress bar during a run.
type extractProgress struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

func newExtractProgress(quiet bool, total int) *extractProgress {
	p := &extractProgress{quiet: quiet}
	if !quiet {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Extracting"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	return p
}

func (p *extractProgress) OnExtractorStart(total int) {}

func (p *extractProgress) OnExtractorDone(kind unit.Kind, unitCount int) {
	if p.quiet || p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}
