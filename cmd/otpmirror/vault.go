package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dmitrymomot/otpmirror/pkg/otp"
	"github.com/dmitrymomot/otpmirror/pkg/otpauth"
	"github.com/dmitrymomot/otpmirror/pkg/qrcode"
	"github.com/dmitrymomot/otpmirror/pkg/vault"
)

func (a *app) openVault(ctx context.Context) (*vault.Vault, error) {
	v := vault.New(a.store, vault.WithLogger(a.log))
	if err := v.Load(ctx); err != nil {
		_ = v.Close()
		return nil, err
	}
	return v, nil
}

func (a *app) importURI(ctx context.Context, uri string) error {
	v, err := a.openVault(ctx)
	if err != nil {
		return err
	}
	defer v.Close()

	c, err := v.Import(ctx, uri)
	if err != nil {
		return err
	}
	fmt.Printf("imported %s (%s)\n", c.Name, c.ID)
	return nil
}

func (a *app) exportQR(ctx context.Context, cmd exportQRCmd) error {
	v, err := a.openVault(ctx)
	if err != nil {
		return err
	}
	defer v.Close()

	c, err := v.Credential(cmd.ID)
	if err != nil {
		return err
	}
	uri := otpauth.Build(otpauth.FromParams(c.Params, cmd.Issuer, c.Name))

	if cmd.Output == "" {
		art, err := qrcode.Terminal(uri, cmd.Inverted)
		if err != nil {
			return err
		}
		fmt.Println(art)
		return nil
	}
	if err := qrcode.WriteFile(cmd.Output, uri, cmd.Size); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", cmd.Output)
	return nil
}

func (a *app) newSecret(ctx context.Context, cmd newSecretCmd) error {
	kind, ok := otp.ParseKind(cmd.Kind)
	if !ok {
		return fmt.Errorf("unknown type %q", cmd.Kind)
	}
	secret, err := otp.GenerateSecret()
	if err != nil {
		return err
	}

	v, err := a.openVault(ctx)
	if err != nil {
		return err
	}
	defer v.Close()

	c, err := v.Add(ctx, vault.Credential{
		Name:             cmd.Name,
		Params:           otp.Params{Secret: secret, Kind: kind},
		SecondaryVisible: !cmd.Hidden,
	})
	if err != nil {
		return err
	}

	uri := otpauth.Build(otpauth.FromParams(c.Params, cmd.Issuer, c.Name))
	fmt.Printf("added %s (%s)\n%s\n", c.Name, c.ID, uri)
	if cmd.ShowQR {
		art, err := qrcode.Terminal(uri, false)
		if err != nil {
			return err
		}
		fmt.Println(art)
	}
	return nil
}

func (a *app) list(ctx context.Context) error {
	v, err := a.openVault(ctx)
	if err != nil {
		return err
	}
	defer v.Close()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tGROUP\tMIRRORED")
	for _, c := range v.Credentials() {
		var group string
		if g, err := v.Group(c.GroupID); err == nil {
			group = g.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", c.ID, c.Name, c.Kind, group, c.SecondaryVisible)
	}
	return tw.Flush()
}
