package converter

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/tabex/internal/config"
)

// inputExtensions are the file types a batch run picks up.
var inputExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".json": true,
}

// DiscoverJobs walks inputDir and returns one job per input file, sorted by
// path. Each file gets the profile whose match patterns accept its name, or
// no profile. Subdirectories that are the output directory, or one of
// exclude, are not entered, so earlier exports are not picked up again.
//
// PARAMETERS:
//   - inputDir: The directory to scan, recursively.
//   - format: The export format applied to every file.
//   - cfg: Supplies the profiles to match against and the output directory.
//   - exclude: Further directories to skip, such as the archive directory.
//
// RETURNS:
//   - The jobs to run.
//   - An error if the directory cannot be walked.
func DiscoverJobs(inputDir, format string, cfg *config.MainConfig, exclude ...string) ([]Job, error) {
	var jobs []Job
	skip := append([]string{cfg.OutputDir}, exclude...)

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != inputDir && insideAny(path, skip) {
				return fs.SkipDir
			}
			return nil
		}
		if !inputExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		profile, _ := cfg.MatchProfile(path)
		jobs = append(jobs, Job{InputPath: path, Format: format, Profile: profile})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].InputPath < jobs[j].InputPath })
	return jobs, nil
}

// RunAll runs jobs with at most workers conversions in flight. Results are
// returned in job order. A cancelled context stops jobs that have not started
// yet; they report the context error.
func (c *Converter) RunAll(ctx context.Context, jobs []Job, workers int) []Result {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{FilePath: job.InputPath, Error: err}
				return nil
			}
			results[i] = c.Run(ctx, job)
			return nil
		})
	}

	// Jobs report failures through their Result, never through the group.
	_ = g.Wait()
	return results
}

// insideAny reports whether path is one of dirs or lies beneath one. Empty
// entries are ignored.
func insideAny(path string, dirs []string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		base, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(base, abs)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
