package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/otpmirror/pkg/config"
	"github.com/dmitrymomot/otpmirror/pkg/httpserver"
	"github.com/dmitrymomot/otpmirror/pkg/link"
	"github.com/dmitrymomot/otpmirror/pkg/logger"
	"github.com/dmitrymomot/otpmirror/pkg/mirror"
	"github.com/dmitrymomot/otpmirror/pkg/snapshot"
	"github.com/dmitrymomot/otpmirror/pkg/vault"
)

func (a *app) peer() (*link.HTTPLink, error) {
	if a.cfg.PeerURL == "" {
		return nil, errors.New("OTPMIRROR_PEER_URL is required to run a node")
	}
	return link.NewHTTPLink(a.cfg.PeerURL,
		link.WithProbeTimeout(a.cfg.SendTimeout),
		link.WithHTTPLogger(a.log),
	)
}

// serve runs the link endpoint for recv next to loop until ctx is done.
func (a *app) serve(ctx context.Context, recv link.Receiver, loop func(context.Context) error) error {
	var hcfg httpserver.Config
	if err := config.Load(&hcfg); err != nil {
		return err
	}
	srv := httpserver.NewFromConfig(hcfg,
		httpserver.WithAddr(a.cfg.ListenAddr),
		httpserver.WithLogger(a.log),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx, link.NewHandler(recv, a.log, a.health...)) })
	g.Go(func() error { return loop(ctx) })
	return g.Wait()
}

func (a *app) runPrimary(ctx context.Context) error {
	peer, err := a.peer()
	if err != nil {
		return err
	}

	v := vault.New(a.store, vault.WithLogger(a.log))
	defer v.Close()
	if err := v.Load(ctx); err != nil {
		return err
	}

	p := mirror.NewPrimary(v, peer,
		mirror.WithInterval(a.cfg.PushInterval),
		mirror.WithSendTimeout(a.cfg.SendTimeout),
		mirror.WithLogger(a.log),
	)
	a.log.InfoContext(ctx, "vault loaded", logger.Count(len(v.Credentials())))
	return a.serve(ctx, p, p.Start)
}

func (a *app) runSecondary(ctx context.Context) error {
	peer, err := a.peer()
	if err != nil {
		return err
	}

	s := mirror.NewSecondary(peer, a.store,
		mirror.WithInterval(a.cfg.RequestInterval),
		mirror.WithSendTimeout(a.cfg.SendTimeout),
		mirror.WithLogger(a.log),
	)
	defer s.Close()

	go a.readAdvances(ctx, s, os.Stdin)
	go a.display(ctx, s, os.Stdout)
	return a.serve(ctx, s, s.Start)
}

// display redraws the code table on every update and once a second so the
// countdown and staleness stay current between pushes.
func (a *app) display(ctx context.Context, s *mirror.Secondary, w io.Writer) {
	sub := s.Subscribe(ctx)
	defer sub.Close()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.Receive():
			if !ok {
				return
			}
		case <-ticker.C:
		}
		printRows(w, s.Display(time.Now()))
	}
}

// readAdvances treats every input line as the id of an HOTP code to advance.
func (a *app) readAdvances(ctx context.Context, s *mirror.Secondary, r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		if err := s.Advance(ctx, id); err != nil {
			a.log.WarnContext(ctx, "cannot advance code", logger.CredentialID(id), logger.Error(err))
		}
	}
}

func printRows(w io.Writer, rows []snapshot.DisplayRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCODE\tINFO")
	for _, r := range rows {
		var info string
		switch {
		case !r.Fresh:
			info = "stale"
		case r.PredictedCounter != nil:
			info = fmt.Sprintf("counter %d (pending)", *r.PredictedCounter)
		case r.Counter != nil:
			info = fmt.Sprintf("counter %d", *r.Counter)
		default:
			info = fmt.Sprintf("%ds", r.SecondsRemaining)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Code, info)
	}
	_ = tw.Flush()
}
