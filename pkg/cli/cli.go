package cli

import (
	"context"
	"flag"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/igolaizola/lyrikai"
	"github.com/igolaizola/lyrikai/pkg/artwork"
	"github.com/igolaizola/lyrikai/pkg/cmd/art"
	"github.com/igolaizola/lyrikai/pkg/cmd/models"
	"github.com/igolaizola/lyrikai/pkg/cmd/session"
	"github.com/igolaizola/lyrikai/pkg/cmd/summarize"
	"github.com/igolaizola/lyrikai/pkg/song"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/peterbourgon/ff/v3/ffyaml"
)

func New(version, commit, date string) *ffcli.Command {
	fs := flag.NewFlagSet("lyrikai", flag.ExitOnError)

	return &ffcli.Command{
		ShortUsage: "lyrikai [flags] <subcommand>",
		FlagSet:    fs,
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
		Subcommands: []*ffcli.Command{
			newVersionCommand(version, commit, date),
			newSessionCommand(),
			newModelsCommand(),
			newSummarizeCommand(),
			newArtCommand(),
		},
	}
}

func newVersionCommand(version, commit, date string) *ffcli.Command {
	return &ffcli.Command{
		Name:       "version",
		ShortUsage: "lyrikai version",
		ShortHelp:  "print version",
		Exec: func(ctx context.Context, args []string) error {
			v := version
			if v == "" {
				if buildInfo, ok := debug.ReadBuildInfo(); ok {
					v = buildInfo.Main.Version
				}
			}
			if v == "" {
				v = "dev"
			}
			versionFields := []string{v}
			if commit != "" {
				versionFields = append(versionFields, commit)
			}
			if date != "" {
				versionFields = append(versionFields, date)
			}
			fmt.Println(strings.Join(versionFields, " "))
			return nil
		},
	}
}

func options() []ff.Option {
	return []ff.Option{
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parser),
		ff.WithEnvVarPrefix("LYRIKAI"),
	}
}

func aiFlags(fs *flag.FlagSet, cfg *lyrikai.Config) {
	fs.BoolVar(&cfg.Debug, "debug", false, "debug mode")
	fs.StringVar(&cfg.Key, "openai-key", "", "openai api key (defaults to OPENAI_API_KEY)")
	fs.StringVar(&cfg.BaseURL, "openai-base-url", "", "openai compatible api base url (optional)")
	fs.StringVar(&cfg.Model, "model", "", "completion model (default gpt-3.5-turbo-instruct)")
	fs.StringVar(&cfg.ImageModel, "image-model", "", "image model (default dall-e-2)")
	fs.DurationVar(&cfg.Timeout, "timeout", 2*time.Minute, "timeout for each api request (0 means no timeout)")
	fs.StringVar(&cfg.Proxy, "proxy", "", "proxy to use")
}

func artFlags(fs *flag.FlagSet, cfg *artwork.Config) {
	fs.StringVar(&cfg.Output, "output", artwork.DefaultOutput, "png file for embedded artwork")
	fs.StringVar(&cfg.Stamp, "title-stamp", "", "stamp the song name on saved artwork (top-left, top-center, top-right, center, bottom-left, bottom-center, bottom-right)")
	fs.StringVar(&cfg.Font, "font", "", "font file for the title stamp (optional)")
	fs.StringVar(&cfg.Overlay, "overlay", "", "image drawn over saved artwork (optional)")
	fs.StringVar(&cfg.UploadType, "upload-type", "", "upload saved artwork (local, s3)")
	fs.StringVar(&cfg.UploadConn, "upload-conn", "", "folder for local, key:secret@bucket.region for s3")
}

// validate fails with a usage error when a flag value is outside its
// allowed values.
func validate(size, format string) error {
	if _, err := song.ParseSize(size); err != nil {
		return fmt.Errorf("%w: %w", flag.ErrHelp, err)
	}
	if _, err := song.ParseFormat(format); err != nil {
		return fmt.Errorf("%w: %w", flag.ErrHelp, err)
	}
	return nil
}

func newSessionCommand() *ffcli.Command {
	cmd := "session"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &session.Config{}
	aiFlags(fs, &cfg.AI)
	artFlags(fs, &cfg.Art)
	fs.StringVar(&cfg.Lyrics, "f", "", "a text file to read lyrics from (required)")
	fs.StringVar(&cfg.Name, "name", song.DefaultName, "your song's name")
	fs.StringVar(&cfg.Size, "size", string(song.Small), "the size of your image (sm, md, lg)")
	fs.StringVar(&cfg.Format, "format", string(song.URL), "format for viewing your image (url, b64_json)")
	fs.BoolVar(&cfg.RequireName, "require-name", false, "reject empty song names")
	fs.IntVar(&cfg.ProbeAttempts, "probe-attempts", 3, "attempts to reach the api at startup")
	fs.DurationVar(&cfg.ProbeWait, "probe-wait", time.Second, "wait time between startup attempts")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("lyrikai %s -f <lyrics.txt> [flags]", cmd),
		Options:    options(),
		ShortHelp:  "interactive session to work on a song",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := validate(cfg.Size, cfg.Format); err != nil {
				return err
			}
			return session.Run(ctx, cfg)
		},
	}
}

func newModelsCommand() *ffcli.Command {
	cmd := "models"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &models.Config{}
	aiFlags(fs, &cfg.AI)
	fs.IntVar(&cfg.ProbeAttempts, "probe-attempts", 3, "attempts to reach the api")
	fs.DurationVar(&cfg.ProbeWait, "probe-wait", time.Second, "wait time between attempts")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("lyrikai %s [flags]", cmd),
		Options:    options(),
		ShortHelp:  "check the api connection and list available models",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			return models.Run(ctx, cfg)
		},
	}
}

func newSummarizeCommand() *ffcli.Command {
	cmd := "summarize"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &summarize.Config{}
	aiFlags(fs, &cfg.AI)
	fs.StringVar(&cfg.Lyrics, "f", "", "a text file to read lyrics from (required)")
	fs.StringVar(&cfg.Size, "size", string(song.Small), "summary size (sm, lg)")
	fs.BoolVar(&cfg.Scene, "scene", false, "also describe a visual scene based on the themes")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("lyrikai %s -f <lyrics.txt> [flags]", cmd),
		Options:    options(),
		ShortHelp:  "summarize the themes of a song",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if cfg.Size != string(song.Small) && cfg.Size != string(song.Large) {
				return fmt.Errorf("%w: invalid summary size %q (sm, lg)", flag.ErrHelp, cfg.Size)
			}
			return summarize.Run(ctx, cfg)
		},
	}
}

func newArtCommand() *ffcli.Command {
	cmd := "art"
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	_ = fs.String("config", "", "config file (optional)")

	cfg := &art.Config{}
	aiFlags(fs, &cfg.AI)
	artFlags(fs, &cfg.Art)
	fs.StringVar(&cfg.Lyrics, "f", "", "a text file to read lyrics from (required)")
	fs.StringVar(&cfg.Name, "name", song.DefaultName, "your song's name")
	fs.StringVar(&cfg.Prompt, "prompt", "", "prompt for the image generator (defaults to a scene based on the lyrics)")
	fs.StringVar(&cfg.Size, "size", string(song.Small), "the size of your image (sm, md, lg)")
	fs.StringVar(&cfg.Format, "format", string(song.URL), "format for viewing your image (url, b64_json)")
	fs.BoolVar(&cfg.Open, "open", false, "open url artwork in the browser")

	return &ffcli.Command{
		Name:       cmd,
		ShortUsage: fmt.Sprintf("lyrikai %s -f <lyrics.txt> [flags]", cmd),
		Options:    options(),
		ShortHelp:  "generate song artwork once",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if err := validate(cfg.Size, cfg.Format); err != nil {
				return err
			}
			return art.Run(ctx, cfg)
		},
	}
}
