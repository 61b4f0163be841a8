package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/igolaizola/lyrikai/pkg/errkind"
	"github.com/igolaizola/lyrikai/pkg/song"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true)
)

type action struct {
	description string
	run         func(ctx context.Context) error
}

type shell struct {
	song    *song.Song
	prompt  *prompter
	out     io.Writer
	actions []action
}

func newShell(s *song.Song, in io.Reader, out io.Writer) *shell {
	sh := &shell{
		song:   s,
		prompt: newPrompter(in, out),
		out:    out,
	}
	sh.actions = []action{
		{"Get song info", sh.info},
		{"Rename song", sh.rename},
		{"Print lyrics", sh.lyrics},
		{"Add song lyrics", sh.loadLyrics},
		{"Summarize lyric themes", sh.summarize},
		{"Get visual description inspired by lyrics", sh.describe},
		{"Create song art from lyrics", sh.artFromLyrics},
		{"Create song art from prompt", sh.artFromPrompt},
		{"Open song art", sh.openArt},
		{"Set image size", sh.setSize},
		{"Set image format", sh.setFormat},
		{"Exit program", func(context.Context) error { return errQuit }},
	}
	return sh
}

// run shows the menu until the user quits. Action failures are reported and
// the loop continues.
func (sh *shell) run(ctx context.Context) error {
	defer sh.prompt.close()
	for {
		a, err := sh.choose(ctx)
		if err == nil {
			err = a.run(ctx)
		}
		switch {
		case errors.Is(err, errQuit):
			fmt.Fprintln(sh.out, "Goodbye!")
			return nil
		case err != nil:
			sh.fail(err)
		}
		if ctx.Err() != nil {
			fmt.Fprintln(sh.out, "Goodbye!")
			return nil
		}
	}
}

func (sh *shell) choose(ctx context.Context) (action, error) {
	fmt.Fprintln(sh.out, strings.Repeat("-", 10))
	fmt.Fprintln(sh.out, titleStyle.Render("What would you like to do? (enter number...)"))
	for i, a := range sh.actions {
		fmt.Fprintf(sh.out, "%d: %s\n", i+1, a.description)
	}
	for {
		v, err := sh.prompt.ask(ctx, "")
		if err != nil {
			return action{}, err
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > len(sh.actions) {
			fmt.Fprintln(sh.out, helpStyle.Render("Please enter a valid number choice"))
			continue
		}
		return sh.actions[n-1], nil
	}
}

func (sh *shell) fail(err error) {
	msg := fmt.Sprintf("Error (%s): %v", errkind.Kind(err), err)
	fmt.Fprintln(sh.out, errStyle.Render(msg))
}

func (sh *shell) ok(format string, args ...any) {
	fmt.Fprintln(sh.out, okStyle.Render(fmt.Sprintf(format, args...)))
}

func (sh *shell) info(context.Context) error {
	fmt.Fprintln(sh.out, sh.song.String())
	return nil
}

func (sh *shell) rename(ctx context.Context) error {
	name, err := sh.prompt.ask(ctx, fmt.Sprintf("What is %s's new name? ", sh.song.Name()))
	if err != nil {
		return err
	}
	if err := sh.song.Rename(name); err != nil {
		return fmt.Errorf("unable to rename song: %w", err)
	}
	sh.ok("Song name changed to: %s", sh.song.Name())
	return nil
}

func (sh *shell) lyrics(context.Context) error {
	fmt.Fprintln(sh.out, sh.song.Lyrics())
	return nil
}

func (sh *shell) loadLyrics(ctx context.Context) error {
	path, err := sh.prompt.ask(ctx, "Path to new song lyrics text file: ")
	if err != nil {
		return err
	}
	if err := sh.song.LoadLyrics(path); err != nil {
		return err
	}
	sh.ok("Lyrics loaded from %s", path)
	return nil
}

func (sh *shell) summarize(ctx context.Context) error {
	fmt.Fprintln(sh.out, "You have two options for lyric summary: 'sm' or 'lg'")
	size, err := sh.prompt.choose(ctx, "Which would you like? ", "Not a valid option", string(song.Small), string(song.Large))
	if err != nil {
		return err
	}
	themes, err := sh.song.Summarize(ctx, song.Size(size))
	if err != nil {
		return err
	}
	fmt.Fprintln(sh.out, strings.TrimLeft(themes, "\n"))
	return nil
}

func (sh *shell) describe(ctx context.Context) error {
	fmt.Fprintln(sh.out, "Would you like to: 1) provide themes, 2) have them inferred from the lyrics, or 3) go back to menu?")
	choice, err := sh.prompt.choose(ctx, "", "Try again", "1", "2", "3")
	if err != nil {
		return err
	}
	var themes string
	switch choice {
	case "1":
		fmt.Fprintln(sh.out, "Great! Write a sentence describing your song's themes. For example: Love, hope, and redemption.")
		themes, err = sh.prompt.ask(ctx, "Themes: ")
		if err != nil {
			return err
		}
	case "2":
		themes, err = sh.song.Themes(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "Themes are: %s\n\n", themes)
	default:
		return nil
	}
	description, err := sh.song.DescribeScene(ctx, themes)
	if err != nil {
		return fmt.Errorf("unable to get description: %w", err)
	}
	fmt.Fprintln(sh.out, "Here is your visual description:", description)
	return nil
}

func (sh *shell) artFromLyrics(ctx context.Context) error {
	return sh.art(ctx, "")
}

func (sh *shell) artFromPrompt(ctx context.Context) error {
	prompt, err := sh.prompt.ask(ctx, "Enter prompt for image generator: ")
	if err != nil {
		return err
	}
	return sh.art(ctx, prompt)
}

func (sh *shell) art(ctx context.Context, prompt string) error {
	art, err := sh.song.GenerateArt(ctx, prompt)
	if err != nil {
		return err
	}
	if art.Path != "" {
		sh.ok("Song art saved to %s", art.Path)
		return nil
	}
	sh.ok("Song art available at %s", art.URL)
	return sh.song.OpenArt(ctx)
}

func (sh *shell) openArt(ctx context.Context) error {
	return sh.song.OpenArt(ctx)
}

func (sh *shell) setSize(ctx context.Context) error {
	v, err := sh.prompt.ask(ctx, "Image size (sm, md, lg): ")
	if err != nil {
		return err
	}
	if err := sh.song.SetSize(v); err != nil {
		return err
	}
	sh.ok("Image size set to %s", sh.song.Size())
	return nil
}

func (sh *shell) setFormat(ctx context.Context) error {
	v, err := sh.prompt.ask(ctx, "Image format (url, b64_json): ")
	if err != nil {
		return err
	}
	if err := sh.song.SetFormat(v); err != nil {
		return err
	}
	sh.ok("Image format set to %s", sh.song.Format())
	return nil
}
