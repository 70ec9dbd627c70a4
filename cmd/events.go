package main

import (
	"bufio"
	"errors"
	"eventdesk/internal/editor"
	"eventdesk/internal/ics"
	"eventdesk/internal/models"
	"eventdesk/internal/render"
	"eventdesk/internal/samples"
	"eventdesk/internal/store"
	"eventdesk/internal/view"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func formFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Event title (required)."},
		&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Event date, YYYY-MM-DD (required)."},
		&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "One of: " + strings.Join(models.Categories, ", ") + "."},
		&cli.StringFlag{Name: "description", Usage: "Free-text description."},
	}
}

// overlayForm replaces the form fields the user actually passed.
func overlayForm(c *cli.Context, form models.Draft) models.Draft {
	if c.IsSet("title") {
		form.Title = c.String("title")
	}
	if c.IsSet("date") {
		form.Date = c.String("date")
	}
	if c.IsSet("category") {
		form.Category = c.String("category")
	}
	if c.IsSet("description") {
		form.Description = c.String("description")
	}
	return form
}

// saveForm submits form through the session. A validation failure is logged
// as the blocking notice and returned unchanged.
func saveForm(c *cli.Context, e *env, sess *editor.Session, form models.Draft) (models.Event, error) {
	if form.Category != "" && !models.KnownCategory(form.Category) {
		e.logger.Warn("Unknown category, saving as given.", "category", form.Category)
	}
	ev, err := sess.Submit(c.Context, form)
	if errors.Is(err, store.ErrValidation) {
		e.logger.Warn("Event not saved.", "error", err)
	}
	return ev, err
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add an event.",
		Flags: formFlags(),
		Action: withEnv(func(c *cli.Context, e *env) error {
			sess := editor.NewSession(e.events)
			ev, err := saveForm(c, e, sess, overlayForm(c, models.Draft{}))
			if err != nil {
				return err
			}
			e.out.Notice("Added %q (%s).", ev.Title, ev.ID)
			return nil
		}),
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change an event. Fields not given keep their current value.",
		ArgsUsage: "[flags] <id>",
		Flags:     formFlags(),
		Action: withEnv(func(c *cli.Context, e *env) error {
			id := models.ID(c.Args().First())
			if id == "" {
				return errors.New("edit needs an event id")
			}
			sess := editor.NewSession(e.events)
			form, err := sess.Begin(id)
			if err != nil {
				return err
			}
			ev, err := saveForm(c, e, sess, overlayForm(c, form))
			if err != nil {
				return err
			}
			e.out.Notice("Saved %q.", ev.Title)
			return nil
		}),
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete events by id. Unknown ids are ignored.",
		ArgsUsage: "<id>...",
		Action: withEnv(func(c *cli.Context, e *env) error {
			if c.NArg() == 0 {
				return errors.New("delete needs at least one event id")
			}
			for _, id := range c.Args().Slice() {
				if err := e.events.Remove(c.Context, models.ID(id)); err != nil {
					return err
				}
			}
			return nil
		}),
	}
}

func clearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete every event.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Do not ask for confirmation."},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			if !c.Bool("yes") && !confirm(c.App.Writer, c.App.Reader, "Clear all events?") {
				e.logger.Info("Clear cancelled.")
				return nil
			}
			return e.events.Clear(c.Context)
		}),
	}
}

func confirm(w io.Writer, r io.Reader, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(r).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Show events, newest date first by default.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Only titles containing this text (case-insensitive)."},
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Value: view.AllCategories, Usage: "Only this category, or \"all\"."},
			&cli.StringFlag{Name: "sort", Value: string(view.SortDateDesc), Usage: "date-asc or date-desc."},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			order, err := view.ParseSortOrder(c.String("sort"))
			if err != nil {
				return err
			}
			p := view.Project(e.events.All(), view.Query{
				Search:   c.String("search"),
				Category: c.String("category"),
				Sort:     order,
			})
			e.out.List(p, c.Command.Name)
			return nil
		}),
	}
}

func sampleCommand() *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "Append the built-in sample events.",
		Action: withEnv(func(c *cli.Context, e *env) error {
			drafts, err := samples.Load()
			if err != nil {
				return err
			}
			added, err := e.events.AddBatch(c.Context, drafts)
			if err != nil {
				return err
			}
			e.out.Notice("Added %d sample events.", len(added))
			return nil
		}),
	}
}

func themeCommand() *cli.Command {
	show := func(e *env) {
		if e.theme.Dark() {
			e.out.Notice("Theme: dark")
		} else {
			e.out.Notice("Theme: light")
		}
	}
	return &cli.Command{
		Name:  "theme",
		Usage: "Show the display theme.",
		Action: withEnv(func(c *cli.Context, e *env) error {
			show(e)
			return nil
		}),
		Subcommands: []*cli.Command{
			{
				Name:  "toggle",
				Usage: "Switch between the light and dark theme.",
				Action: withEnv(func(c *cli.Context, e *env) error {
					dark, err := e.theme.Toggle(c.Context)
					if err != nil {
						return err
					}
					e.out = render.New(c.App.Writer, dark)
					show(e)
					return nil
				}),
			},
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write all events as an iCalendar file.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file; standard output if omitted."},
		},
		Action: withEnv(func(c *cli.Context, e *env) error {
			var (
				skipped int
				err     error
			)
			if path := c.String("out"); path != "" {
				f, ferr := os.Create(path)
				if ferr != nil {
					return fmt.Errorf("failed to create export file: %w", ferr)
				}
				skipped, err = encodeAndClose(f, e.events.All())
			} else {
				skipped, err = ics.Encode(c.App.Writer, e.events.All())
			}
			if err != nil {
				return err
			}
			if skipped > 0 {
				e.logger.Warn("Events without a valid date were not exported.", "count", skipped)
			}
			e.logger.Info("Exported events.", "count", e.events.Len()-skipped)
			return nil
		}),
	}
}

// encodeAndClose writes events to wc and closes it, returning the Close error
// if the encode succeeded.
func encodeAndClose(wc io.WriteCloser, events []models.Event) (int, error) {
	skipped, err := ics.Encode(wc, events)
	if err != nil {
		wc.Close()
		return 0, err
	}
	if err := wc.Close(); err != nil {
		return 0, fmt.Errorf("failed to close export file: %w", err)
	}
	return skipped, nil
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Append the events of an iCalendar file.",
		ArgsUsage: "<file.ics>",
		Action: withEnv(func(c *cli.Context, e *env) error {
			path := c.Args().First()
			if path == "" {
				return errors.New("import needs a file")
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open calendar file: %w", err)
			}
			defer f.Close()

			drafts, err := ics.Decode(f, e.cfg.Timezone)
			if err != nil {
				return err
			}
			added, err := e.events.AddBatch(c.Context, drafts)
			if err != nil {
				return err
			}
			e.out.Notice("Imported %d events from %s.", len(added), path)
			return nil
		}),
	}
}
