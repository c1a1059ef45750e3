package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

type Config struct {
	BaseURL      string `json:"base_url"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".gtdhub")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "cli_config.json"), nil
}

func loadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func saveConfig(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// --- Cobra root and top-level commands ---

var rootCmd = &cobra.Command{
	Use:   "gtdhub",
	Short: "GTDHub CLI",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ---- Login ----

func cmdLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	baseURL := fs.String("base-url", "http://localhost:8000/api", "GTDHub API base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *password == "" {
		return fmt.Errorf("email and password are required")
	}

	body, err := json.Marshal(map[string]string{
		"email":    *email,
		"password": *password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(*baseURL, "/")+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed: %s", strings.TrimSpace(string(msg)))
	}

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return err
	}
	if tokens.AccessToken == "" {
		return fmt.Errorf("no access token received")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.BaseURL = strings.TrimRight(*baseURL, "/")
	cfg.AccessToken = tokens.AccessToken
	cfg.RefreshToken = tokens.RefreshToken
	if err := saveConfig(cfg); err != nil {
		return err
	}

	fmt.Println("✅ Logged in successfully")
	return nil
}

// ---- Register ----

func cmdRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	name := fs.String("name", "", "Display name")
	baseURL := fs.String("base-url", "http://localhost:8000/api", "GTDHub API base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *password == "" || *name == "" {
		return fmt.Errorf("email, password and name are required")
	}

	body, err := json.Marshal(map[string]string{
		"email":    *email,
		"password": *password,
		"name":     *name,
	})
	if err != nil {
		return err
	}

	resp, err := http.Post(strings.TrimRight(*baseURL, "/")+"/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("register failed: %s", strings.TrimSpace(string(msg)))
	}

	fmt.Println("✅ Account created. Run `gtdhub login` to sign in.")
	return nil
}

func requireAuthConfig() (*Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" || cfg.AccessToken == "" {
		return nil, fmt.Errorf("not logged in; run `gtdhub login` first")
	}
	return cfg, nil
}

func doAuthedRequest(cfg *Config, method, path string, body io.Reader) (*http.Response, error) {
	url := strings.TrimRight(cfg.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.AccessToken)
	client := &http.Client{}
	return client.Do(req)
}

// ---- Me ----

func cmdMe(args []string) error {
	_ = args
	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	resp, err := doAuthedRequest(cfg, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("me failed: %s", strings.TrimSpace(string(msg)))
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s <%s>\n  ID: %s\n", user.Name, user.Email, user.ID)
	return nil
}

// ---- Capture ----

func cmdCapture(args []string) error {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	notes := fs.String("notes", "", "Optional item notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		return fmt.Errorf("usage: gtdhub capture <title>")
	}

	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	payload := map[string]string{"title": title}
	if *notes != "" {
		payload["notes"] = *notes
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := doAuthedRequest(cfg, http.MethodPost, "/items", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("capture failed: %s", strings.TrimSpace(string(msg)))
	}

	var item struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return err
	}

	fmt.Printf("✅ Captured to inbox: %s (ID: %s)\n", item.Title, item.ID)
	return nil
}

// ---- Inbox ----

func cmdInbox(args []string) error {
	_ = args
	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	resp, err := doAuthedRequest(cfg, http.MethodGet, "/items?type=inbox", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("inbox failed: %s", strings.TrimSpace(string(msg)))
	}

	var items []struct {
		ID        string  `json:"id"`
		Title     string  `json:"title"`
		Notes     *string `json:"notes"`
		CreatedAt string  `json:"created_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("Inbox is empty. Capture something with `gtdhub capture <title>`.")
		return nil
	}

	fmt.Println("Inbox:")
	for _, it := range items {
		fmt.Printf("  %s\n    ID: %s\n", it.Title, it.ID)
		if it.Notes != nil && *it.Notes != "" {
			fmt.Printf("    %s\n", *it.Notes)
		}
	}
	return nil
}

// ---- Complete ----

func cmdComplete(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gtdhub complete <item-id>")
	}
	itemID := args[0]

	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	resp, err := doAuthedRequest(cfg, http.MethodPost, "/items/"+itemID+"/complete", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("complete failed: %s", strings.TrimSpace(string(msg)))
	}

	fmt.Println("✅ Item completed")
	return nil
}

// ---- Process ----

func cmdProcess(args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	itemType := fs.String("type", "next_action", "Target type: next_action, waiting_for, scheduled, someday, reference")
	contextID := fs.String("context", "", "Context ID")
	projectID := fs.String("project", "", "Project ID")
	priority := fs.String("priority", "", "Priority: p1, p2, p3, p4")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: gtdhub process [flags] <item-id>")
	}
	itemID := fs.Arg(0)

	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	payload := map[string]string{"type": *itemType}
	if *contextID != "" {
		payload["context_id"] = *contextID
	}
	if *projectID != "" {
		payload["project_id"] = *projectID
	}
	if *priority != "" {
		payload["priority"] = *priority
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := doAuthedRequest(cfg, http.MethodPost, "/items/"+itemID+"/process", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("process failed: %s", strings.TrimSpace(string(msg)))
	}

	fmt.Printf("✅ Item moved to %s\n", *itemType)
	return nil
}

// ---- Families ----

func cmdFamilies(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: gtdhub families [list|create|join|invite]")
		return nil
	}

	sub := args[0]
	switch sub {
	case "list":
		return familiesList(args[1:])
	case "create":
		return familiesCreate(args[1:])
	case "join":
		return familiesJoin(args[1:])
	case "invite":
		return familiesInvite(args[1:])
	default:
		fmt.Println("Usage: gtdhub families [list|create|join|invite]")
		return nil
	}
}

func familiesList(args []string) error {
	_ = args
	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	resp, err := doAuthedRequest(cfg, http.MethodGet, "/families", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("list families failed: %s", strings.TrimSpace(string(msg)))
	}

	var families []struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		InviteCode string `json:"invite_code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&families); err != nil {
		return err
	}

	if len(families) == 0 {
		fmt.Println("No families found. Create one with `gtdhub families create <name>`.")
		return nil
	}

	fmt.Println("Families:")
	for _, f := range families {
		fmt.Printf("  %s\n    ID: %s\n    Invite code: %s\n", f.Name, f.ID, f.InviteCode)
	}
	return nil
}

func familiesCreate(args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("usage: gtdhub families create <name>")
	}

	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return err
	}

	resp, err := doAuthedRequest(cfg, http.MethodPost, "/families", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("create family failed: %s", strings.TrimSpace(string(msg)))
	}

	var family struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		InviteCode string `json:"invite_code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&family); err != nil {
		return err
	}

	fmt.Printf("✅ Family created: %s\n  ID: %s\n  Invite code: %s\n", family.Name, family.ID, family.InviteCode)
	return nil
}

func familiesJoin(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gtdhub families join <invite-code>")
	}
	code := args[0]

	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{"invite_code": code})
	if err != nil {
		return err
	}

	resp, err := doAuthedRequest(cfg, http.MethodPost, "/families/join", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("join family failed: %s", strings.TrimSpace(string(msg)))
	}

	var family struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&family); err != nil {
		return err
	}

	fmt.Printf("✅ Joined family: %s (ID: %s)\n", family.Name, family.ID)
	return nil
}

func familiesInvite(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gtdhub families invite <family-id>")
	}
	familyID := args[0]

	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	resp, err := doAuthedRequest(cfg, http.MethodPost, "/families/"+familyID+"/invite", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("rotate invite failed: %s", strings.TrimSpace(string(msg)))
	}

	var family struct {
		InviteCode string `json:"invite_code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&family); err != nil {
		return err
	}

	fmt.Printf("✅ New invite code: %s\n", family.InviteCode)
	return nil
}

// ---- Cobra command wiring ----

func init() {
	loginCmd := &cobra.Command{
		Use:                "login",
		Short:              "Login to GTDHub",
		DisableFlagParsing: true, // delegate flag parsing to cmdLogin (uses flag package)
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdLogin(args)
		},
	}

	registerCmd := &cobra.Command{
		Use:                "register",
		Short:              "Create a GTDHub account",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdRegister(args)
		},
	}

	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdMe(args)
		},
	}

	captureCmd := &cobra.Command{
		Use:                "capture",
		Short:              "Capture an item to the inbox",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCapture(args)
		},
	}

	inboxCmd := &cobra.Command{
		Use:   "inbox",
		Short: "List inbox items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdInbox(args)
		},
	}

	completeCmd := &cobra.Command{
		Use:   "complete",
		Short: "Mark an item as completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdComplete(args)
		},
	}

	processCmd := &cobra.Command{
		Use:                "process",
		Short:              "Process an inbox item into a GTD bucket",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdProcess(args)
		},
	}

	familiesCmd := &cobra.Command{
		Use:                "families",
		Short:              "Manage families",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdFamilies(args)
		},
	}

	rootCmd.AddCommand(loginCmd, registerCmd, meCmd, captureCmd, inboxCmd, completeCmd, processCmd, familiesCmd)
}
