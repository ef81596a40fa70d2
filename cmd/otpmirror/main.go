// Command otpmirror runs one node of a primary/secondary OTP mirror pair and
// manages the primary's vault.
//
// Configuration comes from OTPMIRROR_*, REDIS_* and HTTP_* environment
// variables, optionally loaded from a .env file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
)

type serveCmd struct{}

type importCmd struct {
	URI string `arg:"positional,required" help:"otpauth:// URI to import"`
}

type exportQRCmd struct {
	ID       string `arg:"positional,required" help:"credential id"`
	Output   string `arg:"positional" help:"PNG file to write; omit to print to the terminal"`
	Size     int    `arg:"--size" default:"256" help:"PNG size in pixels"`
	Issuer   string `arg:"--issuer" help:"issuer to embed in the URI"`
	Inverted bool   `arg:"--invert" help:"invert terminal colors"`
}

type newSecretCmd struct {
	Name   string `arg:"positional,required" help:"display name of the new credential"`
	Kind   string `arg:"--type" default:"totp" help:"totp or hotp"`
	Issuer string `arg:"--issuer" help:"issuer for the printed URI"`
	Hidden bool   `arg:"--hidden" help:"do not mirror to the secondary"`
	ShowQR bool   `arg:"--qr" help:"print the otpauth URI as a QR code"`
}

type listCmd struct{}

type args struct {
	EnvFile string `arg:"--env-file,env:OTPMIRROR_ENV_FILE" help:".env file to load before reading configuration"`

	Primary   *serveCmd     `arg:"subcommand:primary" help:"run the primary node"`
	Secondary *serveCmd     `arg:"subcommand:secondary" help:"run the secondary node"`
	Import    *importCmd    `arg:"subcommand:import" help:"add a credential from an otpauth URI"`
	ExportQR  *exportQRCmd  `arg:"subcommand:export-qr" help:"render a credential as an otpauth QR code"`
	NewSecret *newSecretCmd `arg:"subcommand:new-secret" help:"generate a random secret and add it"`
	List      *listCmd      `arg:"subcommand:list" help:"list stored credentials"`
}

func (args) Description() string {
	return "otpmirror mirrors one-time codes from a primary device to a secondary device"
}

func main() {
	var a args
	p := arg.MustParse(&a)
	if p.Subcommand() == nil {
		p.Fail("missing subcommand")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, a); err != nil {
		fmt.Fprintln(os.Stderr, "otpmirror:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, a args) error {
	app, err := newApp(ctx, a.EnvFile)
	if err != nil {
		return err
	}
	defer app.Close()

	switch {
	case a.Primary != nil:
		return app.runPrimary(ctx)
	case a.Secondary != nil:
		return app.runSecondary(ctx)
	case a.Import != nil:
		return app.importURI(ctx, a.Import.URI)
	case a.ExportQR != nil:
		return app.exportQR(ctx, *a.ExportQR)
	case a.NewSecret != nil:
		return app.newSecret(ctx, *a.NewSecret)
	case a.List != nil:
		return app.list(ctx)
	}
	return nil
}
