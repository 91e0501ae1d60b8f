package main

import (
	"context"
	"fmt"
	"os"

	"github.com/crewdesk/crewdesk/pkg/apiclient"
	"github.com/crewdesk/crewdesk/pkg/roles"
	"github.com/crewdesk/crewdesk/pkg/users"
	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
)

func main() {
	log := logger.New()

	var opts struct {
		BaseURL string `short:"u" long:"base-url" description:"Base URL of the API" required:"true"`
		Page    int    `short:"p" long:"page" description:"Page number to fetch" default:"1"`
		Search  string `short:"q" long:"search" description:"Search text"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 || (args[0] != "users" && args[0] != "roles") {
		fmt.Println("go run ./cmd/scripts/debug/fetch-page -u <base-url> <users|roles>")
		os.Exit(1)
	}

	ctx := context.Background()
	api := apiclient.New(opts.BaseURL, apiclient.DefaultTimeout)

	switch args[0] {
	case "users":
		page, err := users.NewClient(api).List(ctx, opts.Page, opts.Search)
		if err != nil {
			log.Err(err).Fatal("list users error")
		}
		fmt.Printf("Page %d of %d (%d on this page)\n", opts.Page, page.Pages, len(page.Data))
		for _, u := range page.Data {
			fmt.Printf("%s  %s (role %s)\n", u.ID, u.FullName(), u.RoleID)
		}
	case "roles":
		page, err := roles.NewClient(api).List(ctx, opts.Page, opts.Search)
		if err != nil {
			log.Err(err).Fatal("list roles error")
		}
		fmt.Printf("Page %d of %d (%d on this page)\n", opts.Page, page.Pages, len(page.Data))
		for _, r := range page.Data {
			name := r.Name
			if r.IsDefault {
				name += " (default)"
			}
			fmt.Printf("%s  %s\n", r.ID, name)
		}
	}
}
