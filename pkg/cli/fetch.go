package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/m-mizutani/examresult/pkg/cli/config"
	"github.com/m-mizutani/examresult/pkg/domain/model"
	"github.com/m-mizutani/examresult/pkg/infra/proxy"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdFetch() *cli.Command {
	var (
		viewerCfg  config.Viewer
		rollNumber string
		semesterID string
		output     string
	)

	flags := append(viewerCfg.Flags(),
		&cli.StringFlag{
			Name:        "roll-number",
			Aliases:     []string{"r"},
			Usage:       "Roll number of the student",
			Required:    true,
			Destination: &rollNumber,
		},
		&cli.StringFlag{
			Name:        "semester",
			Aliases:     []string{"s"},
			Usage:       "Semester id (sem1 ... sem6)",
			Value:       model.DefaultSemesterID,
			Destination: &semesterID,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file (default: exam_result_<examId>.pdf in --download-dir)",
			Destination: &output,
		},
	)

	return &cli.Command{
		Name:  "fetch",
		Usage: "Download one result PDF through a running server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			semester, ok := model.SemesterByID(semesterID)
			if !ok {
				return goerr.New("unknown semester", goerr.V("semester", semesterID))
			}

			fetcher, err := proxy.NewClient(viewerCfg.ProxyURL, nil)
			if err != nil {
				return err
			}

			if viewerCfg.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, viewerCfg.Timeout)
				defer cancel()
			}

			artifact, err := fetcher.FetchPdf(ctx, model.ResultQuery{
				RollNumber: rollNumber,
				ExamID:     semester.ExamID,
			})
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = filepath.Join(viewerCfg.DownloadDir, artifact.Filename())
			}
			if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
				return goerr.Wrap(err, "failed to write PDF", goerr.V("path", path))
			}

			color.New(color.FgGreen).Fprintf(c.Root().Writer, "Saved %s ", path)
			color.New(color.FgHiBlack).Fprintf(c.Root().Writer, "(%s, %s)\n", semester.Label, humanize.Bytes(uint64(artifact.Size())))
			return nil
		},
	}
}
