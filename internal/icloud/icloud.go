// Package icloud reads files that may live in an iCloud Drive folder
// where the OS keeps placeholders until content is downloaded. Reads
// retry briefly to ride out in-flight downloads; on other platforms
// the package degrades to plain file reads.
package icloud

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/solstice035/health-analytics/internal/logging"
)

// Ready reports whether the file exists locally with real content. A
// zero-byte file is treated as an undownloaded placeholder.
func Ready(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	buf := make([]byte, 1)
	_, err = f.Read(buf)
	return err == nil
}

// ReadFile reads path, nudging iCloud to materialize the file and
// retrying with backoff while the download is in flight. A missing
// file fails immediately with os.ErrNotExist.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	var data []byte
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if !Ready(path) {
			triggerDownload(ctx, path)
			return retry.RetryableError(os.ErrDeadlineExceeded)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return retry.RetryableError(err)
		}
		data = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// triggerDownload asks the iCloud daemon to fetch the file. Best
// effort; only meaningful on macOS.
func triggerDownload(ctx context.Context, path string) {
	if runtime.GOOS != "darwin" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := exec.CommandContext(ctx, "brctl", "download", path).Run(); err != nil {
		logging.Debug("brctl download failed", "path", path, "error", err)
	}
}
