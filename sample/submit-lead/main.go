// Command submit-lead drives one popup round against a running lead service:
// it waits for the popup to open, submits the form and dismisses on success.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hemafield/lead-capture/internal/entity"
	"github.com/hemafield/lead-capture/internal/leadclient"
	"github.com/hemafield/lead-capture/internal/popup"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "lead service base URL")
	variant := flag.String("variant", "discount", "popup variant (discount or valentine)")
	name := flag.String("name", "", "visitor name; empty subscribes by email only")
	phone := flag.String("phone", "", "visitor phone")
	email := flag.String("email", "", "visitor email")
	delay := flag.Duration("delay", popup.DefaultDelay, "delay before the popup opens")
	flag.Parse()

	notifier := popup.NewChannelNotifier(4)
	p := popup.New(popup.Variant(*variant), *delay, popup.NewMemoryStore(), notifier)
	p.Mount()
	defer p.Unmount()

	select {
	case ev := <-notifier.C:
		fmt.Println("event:", ev)
	case <-time.After(*delay + 5*time.Second):
		log.Fatal("popup never opened")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client := leadclient.New(*baseURL)

	var (
		res leadclient.Result
		err error
	)
	if *name == "" {
		res, err = client.Subscribe(ctx, *email, p.Variant().Campaign())
	} else {
		res, err = client.SubmitLead(ctx, leadclient.Form{
			Name:     *name,
			Phone:    *phone,
			Email:    *email,
			Campaign: entity.CampaignTikTokDiscount,
		})
	}

	fmt.Printf("%s: %s\n", res.Notice.Title, res.Notice.Description)
	if err != nil {
		fmt.Fprintln(os.Stderr, "submit failed:", err)
		os.Exit(1)
	}
	if res.ContactLink != "" {
		fmt.Println("whatsapp:", res.ContactLink)
	}

	if err := p.Dismiss(popup.ReasonSubmitted); err != nil {
		log.Fatal(err)
	}
	fmt.Println("event:", <-notifier.C)
}
