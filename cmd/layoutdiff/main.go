// layoutdiff compares two layout manifests dumped by independently compiled
// programs and exits non-zero when the programs disagree on any wire type.
// Run it in CI or as a deployment gate before letting the two sides exchange
// raw bytes.
//
//	layoutdiff producer-manifest.json consumer-manifest.json
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/memwire/memwire/layout"
)

func main() {
	var (
		verify = flag.Bool("verify", true, "check stated fingerprints against the descriptors before diffing")
		debug  = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: layoutdiff [flags] <first-manifest.json> <second-manifest.json>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger := newLogger(*debug)
	defer logger.Sync() //nolint:errcheck

	mismatches, err := diff(flag.Arg(0), flag.Arg(1), *verify, logger)
	if err != nil {
		logger.Error("failed to compare manifests", zap.Error(err))
		os.Exit(2)
	}
	if len(mismatches) > 0 {
		os.Exit(1)
	}
}

func diff(firstPath, secondPath string, verify bool, logger *zap.Logger) ([]layout.Mismatch, error) {
	first, err := loadManifest(firstPath, verify)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded manifest", zap.String("path", firstPath), zap.Int("types", len(first.Names())))

	second, err := loadManifest(secondPath, verify)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded manifest", zap.String("path", secondPath), zap.Int("types", len(second.Names())))

	mismatches := first.Compare(second)
	for _, mismatch := range mismatches {
		logger.Error("layout mismatch",
			zap.String("type", mismatch.Name),
			zap.String("reason", mismatch.Reason),
		)
	}

	if len(mismatches) == 0 {
		logger.Info("manifests agree", zap.Int("types", len(first.Names())))
	} else {
		logger.Error("manifests disagree", zap.Int("mismatches", len(mismatches)))
	}

	return mismatches, nil
}

func loadManifest(path string, verify bool) (*layout.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	manifest := layout.NewManifest()
	if err := json.Unmarshal(data, manifest); err != nil {
		return nil, errors.Wrapf(err, "failed to decode manifest %s", path)
	}

	if verify {
		if err := manifest.Verify(); err != nil {
			return nil, errors.Wrapf(err, "failed to verify manifest %s", path)
		}
	}

	return manifest, nil
}

func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return zap.Must(cfg.Build())
}
