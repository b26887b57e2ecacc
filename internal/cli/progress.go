package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// LevelProgress shows one progress bar per mining level. It implements
// miner.Observer and miner.CountObserver.
type LevelProgress struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	mu     sync.Mutex
}

// NewLevelProgress creates a level progress display writing to writer,
// or to stderr when writer is nil.
func NewLevelProgress(writer io.Writer) *LevelProgress {
	if writer == nil {
		writer = os.Stderr
	}
	return &LevelProgress{writer: writer}
}

// LevelStarted opens a bar sized to the level's candidate count.
func (p *LevelProgress) LevelStarted(level, candidates int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.bar = nil
	if candidates <= 0 {
		return
	}
	p.bar = progressbar.NewOptions(candidates,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan][bold]Level %d[reset] counting itemsets", level)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// CandidatesCounted advances the current bar by n candidates.
func (p *LevelProgress) CandidatesCounted(_, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	if err := p.bar.Add(n); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// LevelFinished completes the current bar and reports how many candidates
// were frequent.
func (p *LevelProgress) LevelFinished(level, frequent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	if err := p.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
	p.bar = nil

	if _, err := fmt.Fprintf(p.writer, "\n  %s\n", SubtleStyle.Render(fmt.Sprintf("level %d: %d frequent", level, frequent))); err != nil {
		slog.Warn("Failed to write level summary", "error", err)
	}
}
