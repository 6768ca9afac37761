package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/avelaine/historyx"
	"github.com/avelaine/historyx/announce"
	"github.com/avelaine/historyx/memdom"
	"github.com/avelaine/historyx/session"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	browser := memdom.New("https://example.com/app/about?ref=newsletter")

	publishChan := make(chan announce.Published, 100)
	publisher := announce.NewChannel(publishChan)

	engine, err := historyx.New(browser.Platform(),
		historyx.WithLogger(logger),
		historyx.WithAnnouncer(announce.NewMulti(publisher, announce.NewLog(logger))),
	)
	if err != nil {
		panic(err)
	}

	res, err := engine.Activate(historyx.Options{
		Root:      "/app/",
		PushState: true,
		RouteHandler: func(fragment string) bool {
			fmt.Printf(">> routing %s\n", fragment)
			return true
		},
	})
	if err != nil {
		panic(err)
	}
	fmt.Printf("activated (%s) in %s mode at %s\n\n", res, engine.Mode(), engine.Fragment())

	// Plain navigations.
	engine.Navigate("docs")
	engine.Navigate("docs/setup")
	engine.SetState("scroll", 240)

	// A link click travelling through the interceptor.
	link := &historyx.Element{Tag: "a", Attrs: map[string]string{"href": "pricing"}}
	if browser.DispatchClick(&historyx.Click{Target: link, Button: historyx.PrimaryButton}) {
		fmt.Println(">> link click intercepted, no page load")
	}

	// Back button.
	engine.NavigateBack()
	fmt.Printf("after back: %s (native %s)\n", engine.Fragment(), browser.Href())

	// Drain announcements.
	close(publishChan)
	fmt.Println("\nannouncements:")
	for p := range publishChan {
		fmt.Printf("  %s %s (replace=%v)\n", p.Topic, p.Announcement.URL, p.Announcement.Options.Replace)
	}

	// Persist the session for the next run.
	store, err := session.NewJSONStore(os.TempDir())
	if err != nil {
		panic(err)
	}
	snap := session.Capture(engine, "demo")
	if err := store.Save(snap); err != nil {
		panic(err)
	}
	fmt.Printf("\nsession %q saved: fragment %s, state %v\n", snap.SessionID, snap.Fragment, snap.State)

	engine.Deactivate()
}
