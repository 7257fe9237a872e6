// Command reqwire is a CLI client for the reqwire service. It keeps a local
// cache of fetched entities plus selection and recency state under the
// user's state directory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"reqwire/client"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/services"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: reqwire [-addr URL] [-token T] <command> [args]

commands:
  version
  onboard                        run the account setup step
  profile                        show the caller's profile
  projects                       list projects
  project-get -id ID
  project-create -name N [-desc D]
  project-delete -id ID          also deletes the project's requirements
  reqs [-project ID]             list requirements
  req-get -id ID
  req-create -project ID -title T [-desc D]
  req-update -id ID [-title T] [-status S]
  req-delete -id ID
  select -kind K -id ID          add to the selection
  deselect -kind K -id ID
  selected -kind K               show the selection
  recent [-kind K] [-n N]        show recently accessed items
  watch [-project ID]            follow the requirement change stream

The bearer token is read from -token or the REQWIRE_TOKEN environment
variable. Local state lives under the XDG state directory.`)
	os.Exit(2)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail(err)
	}
}

func parseID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		fail(fmt.Errorf("invalid id %q: %w", raw, err))
	}
	return id
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	token := flag.String("token", os.Getenv("REQWIRE_TOKEN"), "bearer token")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	stateDir, err := client.DefaultStateDir()
	if err != nil {
		stateDir = ""
	}

	cli, err := client.New(*addr, *token, stateDir, logger)
	if err != nil {
		fail(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd {

	case "version":
		fmt.Printf("reqwire %s (%s)\n", version, buildDate)

	case "onboard":
		result, err := cli.EnsureOnboarded(ctx)
		if err != nil {
			fail(err)
		}
		if !result.Created {
			fmt.Println("already set up")
			return
		}
		printJSON(result)

	case "profile":
		profile, err := cli.Profile(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(profile)

	case "projects":
		projects, err := cli.Projects.List(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(projects)

	case "project-get":
		fs := flag.NewFlagSet("project-get", flag.ExitOnError)
		id := fs.String("id", "", "project id")
		_ = fs.Parse(args)
		project, err := cli.Projects.Get(ctx, parseID(*id))
		if err != nil {
			fail(err)
		}
		printJSON(project)

	case "project-create":
		fs := flag.NewFlagSet("project-create", flag.ExitOnError)
		name := fs.String("name", "", "project name")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(args)
		if *name == "" {
			fail(fmt.Errorf("need -name"))
		}
		project := &models.Project{Name: *name, Status: models.ProjectDraft}
		if *desc != "" {
			project.Description = desc
		}
		created, err := cli.Projects.Create(ctx, project)
		if err != nil {
			fail(err)
		}
		printJSON(created)

	case "project-delete":
		fs := flag.NewFlagSet("project-delete", flag.ExitOnError)
		id := fs.String("id", "", "project id")
		_ = fs.Parse(args)
		if err := cli.Projects.Delete(ctx, parseID(*id)); err != nil {
			fail(err)
		}
		fmt.Println("deleted")

	case "reqs":
		fs := flag.NewFlagSet("reqs", flag.ExitOnError)
		project := fs.String("project", "", "project id")
		_ = fs.Parse(args)
		var filter client.RequirementFilter
		if *project != "" {
			id := parseID(*project)
			filter.ProjectID = &id
		}
		reqs, err := cli.Requirements.List(ctx, filter)
		if err != nil {
			fail(err)
		}
		printJSON(reqs)

	case "req-get":
		fs := flag.NewFlagSet("req-get", flag.ExitOnError)
		id := fs.String("id", "", "requirement id")
		_ = fs.Parse(args)
		req, err := cli.Requirements.Get(ctx, parseID(*id))
		if err != nil {
			fail(err)
		}
		printJSON(req)

	case "req-create":
		fs := flag.NewFlagSet("req-create", flag.ExitOnError)
		project := fs.String("project", "", "project id")
		title := fs.String("title", "", "requirement title")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(args)
		if *project == "" || *title == "" {
			fail(fmt.Errorf("need -project and -title"))
		}
		projectID := parseID(*project)
		req := &models.Requirement{
			ProjectID: &projectID,
			Title:     *title,
			Priority:  models.PriorityMedium,
			Status:    models.RequirementDraft,
		}
		if *desc != "" {
			req.Description = desc
		}
		created, err := cli.Requirements.Create(ctx, req)
		if err != nil {
			fail(err)
		}
		printJSON(created)

	case "req-update":
		fs := flag.NewFlagSet("req-update", flag.ExitOnError)
		id := fs.String("id", "", "requirement id")
		title := fs.String("title", "", "new title")
		status := fs.String("status", "", "new status")
		_ = fs.Parse(args)
		reqID := parseID(*id)

		// Updates need a cached base version
		if _, err := cli.Requirements.Get(ctx, reqID); err != nil {
			fail(err)
		}

		var update services.UpdateRequirementRequest
		if *title != "" {
			update.Title = title
		}
		if *status != "" {
			s := models.RequirementStatus(*status)
			update.Status = &s
		}
		updated, err := cli.Requirements.Update(ctx, reqID, &update)
		if err != nil {
			fail(err)
		}
		printJSON(updated)

	case "req-delete":
		fs := flag.NewFlagSet("req-delete", flag.ExitOnError)
		id := fs.String("id", "", "requirement id")
		_ = fs.Parse(args)
		if err := cli.Requirements.Delete(ctx, parseID(*id)); err != nil {
			fail(err)
		}
		fmt.Println("deleted")

	case "select", "deselect":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		kind := fs.String("kind", client.KindRequirement, "entity kind")
		id := fs.String("id", "", "entity id")
		_ = fs.Parse(args)
		entityID := parseID(*id)
		if cmd == "select" {
			cli.Selection.Select(*kind, entityID)
		} else {
			cli.Selection.Deselect(*kind, entityID)
		}

	case "selected":
		fs := flag.NewFlagSet("selected", flag.ExitOnError)
		kind := fs.String("kind", client.KindRequirement, "entity kind")
		_ = fs.Parse(args)
		for _, id := range cli.Selection.Selected(*kind) {
			fmt.Println(id)
		}

	case "recent":
		fs := flag.NewFlagSet("recent", flag.ExitOnError)
		kind := fs.String("kind", "", "entity kind (all when empty)")
		n := fs.Int("n", 10, "max entries")
		_ = fs.Parse(args)
		if *kind == "" {
			printJSON(cli.Recency.Recent(*n))
		} else {
			printJSON(cli.Recency.RecentByKind(*kind, *n))
		}

	case "watch":
		fs := flag.NewFlagSet("watch", flag.ExitOnError)
		project := fs.String("project", "", "project id")
		_ = fs.Parse(args)
		var filter client.RequirementFilter
		if *project != "" {
			id := parseID(*project)
			filter.ProjectID = &id
		}

		watchCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sub, err := cli.SubscribeRequirements(watchCtx, filter.ProjectID)
		if err != nil {
			fail(err)
		}
		defer sub.Close()

		for {
			select {
			case <-watchCtx.Done():
				return
			case ev, open := <-sub.C:
				if !open {
					fail(fmt.Errorf("change stream closed"))
				}
				if err := cli.ReconcileRequirement(ev); err != nil {
					fmt.Fprintln(os.Stderr, "reconcile:", err)
				}
				printJSON(ev)
			}
		}

	default:
		usage()
	}
}
