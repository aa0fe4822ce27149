package core

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"cookiegate/entity"
	"cookiegate/internal/audit"
	"cookiegate/lib/sl"
)

// Checker validates one credential against the remote service.
type Checker interface {
	Check(ctx context.Context, cred *entity.Credential) (bool, error)
}

// Parser extracts a credential from one raw line; nil means the line is
// malformed and must be skipped without counting.
type Parser func(line string) *entity.Credential

func (c *Core) SetChecker(checker Checker, parse Parser) {
	c.checker = checker
	c.parse = parse
}

// CheckUpload runs the whole submission pipeline for one uploaded file:
// gate on extension and sender authorization, persist the upload to the
// sender's slot, then walk the stored file line by line. At most
// RateLimit parseable lines are checked per submission; lines past the
// cap are silently ignored. Each confirmed-valid raw line is appended to
// the results file. A fixed delay follows every checked credential to
// pace calls against the remote service.
//
// A checker call that fails is counted as invalid, matching the reply
// contract; the failure is still logged with the run id.
func (c *Core) CheckUpload(ctx context.Context, identity, fileName string, src io.Reader) (*entity.CheckReport, error) {
	if c.checker == nil || c.parse == nil {
		return nil, fmt.Errorf("checker not connected")
	}

	if !strings.EqualFold(filepath.Ext(fileName), ".txt") {
		return nil, ErrBadExtension
	}

	authorized, err := c.IsAuthorized(identity)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, ErrNotAuthorized
	}

	path, err := c.storeUpload(identity, src)
	if err != nil {
		return nil, err
	}

	report := &entity.CheckReport{
		RunId:    uuid.New().String(),
		Identity: identity,
		At:       time.Now().UTC(),
	}
	log := c.log.With(
		sl.Run(report.RunId),
		slog.String("identity", identity),
	)
	log.Info("checking upload", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if report.Checked >= c.cfg.RateLimit {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		cred := c.parse(line)
		if cred == nil {
			continue
		}

		valid, err := c.checker.Check(ctx, cred)
		if err != nil {
			log.Warn("checker call failed, counting as invalid", sl.Err(err))
			valid = false
		}
		if valid {
			report.Valid++
			if err = c.appendResult(cred.Raw); err != nil {
				return nil, err
			}
		}
		report.Checked++

		time.Sleep(c.cfg.Delay)
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan upload: %w", err)
	}

	log.Info("upload checked",
		slog.Int("checked", report.Checked),
		slog.Int("valid", report.Valid),
		slog.Int("invalid", report.Invalid()),
	)
	if c.audit != nil {
		c.audit.Event(audit.CategoryCheck, "%s checked %d cookies, %d valid", identity, report.Checked, report.Valid)
	}
	if c.archive != nil {
		if err = c.archive.SaveReport(report); err != nil {
			log.Warn("archiving check report", sl.Err(err))
		}
	}
	return report, nil
}

// storeUpload writes the uploaded bytes to the sender's per-identity
// slot, replacing any previous upload from the same sender.
func (c *Core) storeUpload(identity string, src io.Reader) (string, error) {
	if err := os.MkdirAll(c.cfg.UploadsDir, 0755); err != nil {
		return "", fmt.Errorf("uploads dir: %w", err)
	}
	path := filepath.Join(c.cfg.UploadsDir, identity+".txt")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	defer f.Close()
	if _, err = io.Copy(f, src); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return path, nil
}

func (c *Core) appendResult(line string) error {
	f, err := os.OpenFile(c.cfg.ResultsFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("results file: %w", err)
	}
	defer f.Close()
	if _, err = fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("results file: %w", err)
	}
	return nil
}
