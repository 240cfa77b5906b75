package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"demoreel/internal/beatsync"
)

// newSyncProgress returns a beat progress callback drawing to w, plus a
// finish func. Both are no-ops when w is not a terminal.
func newSyncProgress(w io.Writer, total int, interactive bool) (func(beatsync.Progress), func()) {
	if !interactive || total == 0 {
		return nil, func() {}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("syncing beats"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	update := func(p beatsync.Progress) {
		status := "ok"
		if !p.Result.Success {
			status = "failed"
		}
		bar.Describe(fmt.Sprintf("%s %s", p.Result.BeatID, status))
		_ = bar.Add(1)
	}
	finish := func() {
		_ = bar.Finish()
	}
	return update, finish
}
