// Command client is a small console client for the authentication service,
// useful for smoke tests against a running server.
//
// Usage:
//
//	client [-addr host:port] login -email <email>
//	client [-addr host:port] refresh -token <refresh-token>
//	client [-addr host:port] logout -token <refresh-token>
//	client [-addr host:port] update-password -access <access-token>
//
// Passwords are prompted for interactively and never taken from argv.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/term"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"ledgerauth/internal/rpcapi"
)

const requestTimeout = 10 * time.Second

func main() {
	addr := flag.String("addr", "localhost:50051", "server address")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: client [-addr host:port] <login|refresh|logout|update-password> [flags]")
		os.Exit(2)
	}

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fatal(err)
	}
	defer conn.Close()

	client := rpcapi.NewAuthenticationClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "login":
		err = runLogin(ctx, client, args)
	case "refresh":
		err = runRefresh(ctx, client, args)
	case "logout":
		err = runLogout(ctx, client, args)
	case "update-password":
		err = runUpdatePassword(ctx, client, args)
	default:
		err = fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func runLogin(ctx context.Context, client rpcapi.AuthenticationClient, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("login: -email is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	resp, err := client.Login(ctx, &rpcapi.LoginRequest{Email: *email, Password: password})
	if err != nil {
		return err
	}
	printTokens(resp)
	return nil
}

func runRefresh(ctx context.Context, client rpcapi.AuthenticationClient, args []string) error {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	token := fs.String("token", "", "refresh token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" {
		return fmt.Errorf("refresh: -token is required")
	}

	resp, err := client.Refresh(ctx, &rpcapi.RefreshRequest{RefreshToken: *token})
	if err != nil {
		return err
	}
	printTokens(resp)
	return nil
}

func runLogout(ctx context.Context, client rpcapi.AuthenticationClient, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	token := fs.String("token", "", "refresh token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" {
		return fmt.Errorf("logout: -token is required")
	}

	resp, err := client.Logout(ctx, &rpcapi.LogoutRequest{RefreshToken: *token})
	if err != nil {
		return err
	}
	fmt.Printf("sessions revoked: %d\n", resp.GetRowsAffected())
	return nil
}

func runUpdatePassword(ctx context.Context, client rpcapi.AuthenticationClient, args []string) error {
	fs := flag.NewFlagSet("update-password", flag.ExitOnError)
	access := fs.String("access", "", "access token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *access == "" {
		return fmt.Errorf("update-password: -access is required")
	}

	oldPassword, err := promptPassword("Current password: ")
	if err != nil {
		return err
	}
	newPassword, err := promptPassword("New password: ")
	if err != nil {
		return err
	}

	ctx = metadata.AppendToOutgoingContext(ctx, "access_token", *access)
	resp, err := client.UpdatePassword(ctx, &rpcapi.UpdatePasswordRequest{
		PasswordOriginal: oldPassword,
		PasswordNew:      newPassword,
	})
	if err != nil {
		return err
	}
	printTokens(resp)
	return nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func printTokens(resp *rpcapi.TokenResponse) {
	fmt.Printf("access_token: %s\n", resp.GetAccessToken())
	fmt.Printf("refresh_token: %s\n", resp.GetRefreshToken())
}
