package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Daskott/govnotify/signer"
	"github.com/Daskott/govnotify/snapshot"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

type TestDataProvider []struct {
	description string
	cmd         func() *cobra.Command
	args        []string
	expectedOut string
}

// fakeNotifi keeps one account in memory and answers the GraphQL operations
// the CLI sends.
type fakeNotifi struct {
	mu      sync.Mutex
	account snapshot.Snapshot
	logins  int
}

type fakeRequest struct {
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (f *fakeNotifi) handle(w http.ResponseWriter, r *http.Request) {
	req := fakeRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	public := req.OperationName == "logInFromDapp" || req.OperationName == "fetchConfiguration"
	if !public && r.Header.Get("Authorization") != "Bearer "+testToken {
		writeData(w, nil, "Unauthorized")
		return
	}

	switch req.OperationName {
	case "logInFromDapp":
		f.logins++
		writeData(w, map[string]interface{}{
			"user": map[string]interface{}{
				"authorization": map[string]string{"token": testToken, "expiry": "2099-01-01T00:00:00Z"},
			},
		}, "")
	case "fetchConfiguration":
		writeData(w, map[string]interface{}{
			"configuration": map[string]interface{}{"supportedTargetTypes": []string{"EMAIL", "SMS", "TELEGRAM"}},
		}, "")
	case "fetchData":
		writeData(w, f.account, "")
	case "createAlert", "updateAlert":
		alert := f.upsert(req.Variables)
		writeData(w, map[string]interface{}{"alert": alert}, "")
	case "deleteAlert":
		f.account.Alerts = nil
		writeData(w, map[string]interface{}{"alert": map[string]string{"id": "a1"}}, "")
	default:
		writeData(w, nil, "unknown operation "+req.OperationName)
	}
}

func (f *fakeNotifi) upsert(variables map[string]interface{}) snapshot.Alert {
	group := snapshot.TargetGroup{ID: "tg1"}
	if email, ok := variables["emailAddress"].(string); ok {
		group.EmailTargets = []snapshot.EmailTarget{{ID: "e1", EmailAddress: email, IsConfirmed: true}}
	}
	if phone, ok := variables["phoneNumber"].(string); ok {
		group.SmsTargets = []snapshot.SmsTarget{{ID: "p1", PhoneNumber: phone, IsConfirmed: true}}
	}
	if handle, ok := variables["telegramId"].(string); ok {
		group.TelegramTargets = []snapshot.TelegramTarget{{
			ID:              "t1",
			TelegramID:      handle,
			ConfirmationURL: "https://t.me/NotifiNetworkBot?start=t1",
		}}
	}

	alert := snapshot.Alert{
		ID:          "a1",
		Name:        "Mango notifications",
		SourceGroup: snapshot.SourceGroup{ID: "sg1", Sources: f.account.Sources},
		Filter:      f.account.Filters[0],
		TargetGroup: group,
	}
	if name, ok := variables["name"].(string); ok {
		alert.Name = name
	}

	f.account.Alerts = []snapshot.Alert{alert}
	f.account.TargetGroups = []snapshot.TargetGroup{group}
	return alert
}

func writeData(w http.ResponseWriter, data interface{}, errMsg string) {
	body := map[string]interface{}{"data": data}
	if errMsg != "" {
		body["errors"] = []map[string]string{{"message": errMsg}}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func setupTestBackend(t *testing.T) (string, *fakeNotifi) {
	backend := &fakeNotifi{account: snapshot.Snapshot{
		Sources: []snapshot.Source{{ID: "s1", Name: "Mango", Type: "SOLANA_REALM"}},
		Filters: []snapshot.Filter{{ID: "f1", FilterType: "PROPOSAL"}},
	}}

	router := mux.NewRouter()
	router.HandleFunc("/gql", backend.handle).Methods(http.MethodPost)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	keyFile := filepath.Join(dir, "wallet.jwk")
	_, err := signer.GenerateKeyFile(keyFile)
	require.Nil(t, err)

	configFile := filepath.Join(dir, "config.yml")
	content := fmt.Sprintf(`notifi:
  env: localnet
  dappAddress: solanarealmsdao
  url: %v/gql
organization:
  name: Mango
  address: DPiH3H3c7t47BMxqTxLsuPQpEC6Kne8GA9VXbxpnZxFE
wallet:
  keyFile: %v
  sessionFile: %v
watch:
  interval: 30s
`, server.URL, keyFile, filepath.Join(dir, "session.json"))
	require.Nil(t, os.WriteFile(configFile, []byte(content), 0600))

	return configFile, backend
}

func runCases(t *testing.T, cases TestDataProvider) {
	var (
		buff      = new(bytes.Buffer)
		actualOut string
	)

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			cmd := c.cmd()

			// Clear output buffer before the next test
			buff.Reset()

			cmd.SetOut(buff)
			cmd.SetErr(buff)
			cmd.SetArgs(c.args)

			cmd.Execute()

			actualOut = buff.String()
			if !strings.Contains(actualOut, c.expectedOut) {
				t.Errorf("Expected: \n\"%s\" \nTo contain: \n\"%s\"", actualOut, c.expectedOut)
			}
		})
	}
}

func useConfigFile(t *testing.T, path string) {
	// Save cfgFile before stubbing it out
	// And revert to prev cfgFile after test is done
	savedCfgFile := cfgFile
	t.Cleanup(func() {
		cfgFile = savedCfgFile
	})

	cfgFile = path
}

func TestCountriesCmd(t *testing.T) {
	// countries never reads the config, any file keeps $HOME untouched
	path, _ := os.Getwd()
	useConfigFile(t, filepath.Join(path, "test-fixtures", "invalid-config.yml"))

	runCases(t, TestDataProvider{
		{"Should list the default country", createCountriesCmd, nil, "US +1"},
		{"Should list countries sharing a dial code", createCountriesCmd, nil, "CA +1"},
		{"Should list country names", createCountriesCmd, nil, "GB +44   United Kingdom"},
	})
}

func TestSubscriptionCmds(t *testing.T) {
	configFile, backend := setupTestBackend(t)
	useConfigFile(t, configFile)

	runCases(t, TestDataProvider{
		{
			description: "Should show an account without alert",
			cmd:         createShowCmd,
			expectedOut: "not subscribed",
		},
		{
			description: "Should NOT subscribe without any channel flag",
			cmd:         createSubscribeCmd,
			expectedOut: "nothing to save",
		},
		{
			description: "Should NOT subscribe with more than 10 phone digits",
			cmd:         createSubscribeCmd,
			args:        []string{"--phone", "12345678901"},
			expectedOut: "invalid phone \"12345678901\": local number has more than 10 digits",
		},
		{
			description: "Should NOT subscribe with an unknown country",
			cmd:         createSubscribeCmd,
			args:        []string{"--country", "ZZ", "--phone", "2071838750"},
			expectedOut: "unknown country \"ZZ\"",
		},
		{
			description: "Should create the alert on first subscribe",
			cmd:         createSubscribeCmd,
			args:        []string{"--email", "voter@mango.xyz"},
			expectedOut: "alert created for Mango",
		},
		{
			description: "Should update the alert with a phone number",
			cmd:         createSubscribeCmd,
			args:        []string{"--country", "GB", "--phone", "20 7183 8750"},
			expectedOut: "+44 2071838750",
		},
		{
			description: "Should keep channels not passed as flags",
			cmd:         createShowCmd,
			expectedOut: "Email:    voter@mango.xyz",
		},
		{
			description: "Should print the telegram confirmation url",
			cmd:         createSubscribeCmd,
			args:        []string{"--telegram", "@mango_voter"},
			expectedOut: "open https://t.me/NotifiNetworkBot?start=t1 to confirm this channel",
		},
		{
			description: "Should show pending confirmations",
			cmd:         createShowCmd,
			expectedOut: "unconfirmed, open https://t.me/NotifiNetworkBot?start=t1",
		},
		{
			description: "Should unsubscribe from the organization",
			cmd:         createUnsubscribeCmd,
			args:        []string{"--source", "s1"},
			expectedOut: "unsubscribed from Mango",
		},
		{
			description: "Should report when there is nothing to unsubscribe from",
			cmd:         createUnsubscribeCmd,
			expectedOut: "no alert to remove for Mango",
		},
		{
			description: "Should NOT overwrite an existing wallet key",
			cmd:         createKeygenCmd,
			expectedOut: "already exists",
		},
		{
			description: "Should forget the cached session",
			cmd:         createLogoutCmd,
			expectedOut: "logged out",
		},
		{
			description: "Should sign in again after logout",
			cmd:         createShowCmd,
			expectedOut: "Telegram: @mango_voter",
		},
	})

	// The cached session is reused until logout
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.logins != 2 {
		t.Errorf("Expected 2 logins, got %v", backend.logins)
	}
}

func TestWatchCmdInterval(t *testing.T) {
	configFile, _ := setupTestBackend(t)
	useConfigFile(t, configFile)

	runCases(t, TestDataProvider{
		{"Should NOT watch with an invalid interval", createWatchCmd, []string{"--every", "soon"}, "invalid watch interval \"soon\""},
		{"Should NOT watch more often than every second", createWatchCmd, []string{"--every", "10ms"}, "shorter than a second"},
	})
}

func TestInvalidConfig(t *testing.T) {
	path, _ := os.Getwd()
	useConfigFile(t, filepath.Join(path, "test-fixtures", "invalid-config.yml"))

	runCases(t, TestDataProvider{
		{"Should reject an unknown environment", createShowCmd, nil, "failed on the 'oneof' tag"},
		{"Should require the twilio auth token with the account sid", createShowCmd, nil, "failed on the 'required_with' tag"},
		{"Should reject an invalid watch interval", createShowCmd, nil, "failed on the 'duration' tag"},
	})
}

func TestRootCmdRegistersSubcommands(t *testing.T) {
	for _, name := range []string{"countries", "keygen", "logout", "show", "subscribe", "unsubscribe", "watch"} {
		t.Run(name, func(t *testing.T) {
			found, _, err := rootCmd.Find([]string{name})
			require.Nil(t, err)
			require.Equal(t, name, found.Name())
		})
	}
}
