// Package notifi is an HTTP client for the notification backend's
// GraphQL API.
package notifi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Daskott/govnotify/auth"
	"github.com/Daskott/govnotify/colors"
	"github.com/Daskott/govnotify/logger"
	"github.com/Daskott/govnotify/snapshot"
	"github.com/Daskott/govnotify/version"
	"github.com/pkg/errors"
)

const defaultTimeout = 30 * time.Second

var logg = logger.NewLogger()

type Config struct {
	Env Environment

	// BaseURL overrides the endpoint of Env when set
	BaseURL     string
	DappAddress string
	HTTPClient  *http.Client
}

type Client struct {
	endpoint    string
	dappAddress string
	httpClient  *http.Client
	now         func() time.Time

	mu    sync.RWMutex
	token string
}

type gqlRequest struct {
	OperationName string      `json:"operationName"`
	Query         string      `json:"query"`
	Variables     interface{} `json:"variables"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func NewClient(config Config) (*Client, error) {
	endpoint := config.BaseURL
	if endpoint == "" {
		url, err := config.Env.URL()
		if err != nil {
			return nil, err
		}
		endpoint = url
	}

	if config.DappAddress == "" {
		return nil, errors.New("dapp address is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		endpoint:    endpoint,
		dappAddress: config.DappAddress,
		httpClient:  httpClient,
		now:         time.Now,
	}, nil
}

// UseSession sets the bearer token sent with every request. A nil session
// sends requests anonymously.
func (c *Client) UseSession(session *auth.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	if session != nil {
		c.token = session.Token
	}
}

func (c *Client) FetchConfiguration(ctx context.Context) (*Configuration, error) {
	result := struct {
		Configuration Configuration `json:"configuration"`
	}{}

	err := c.do(ctx, "fetchConfiguration", fetchConfigurationQuery, struct{}{}, &result)
	if err != nil {
		return nil, err
	}

	return &result.Configuration, nil
}

func (c *Client) FetchSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	result := snapshot.Snapshot{}

	err := c.do(ctx, "fetchData", fetchDataQuery, struct{}{}, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) CreateAlert(ctx context.Context, input CreateAlertInput) (*snapshot.Alert, error) {
	return c.alertMutation(ctx, "createAlert", createAlertMutation, input)
}

func (c *Client) UpdateAlert(ctx context.Context, input UpdateAlertInput) (*snapshot.Alert, error) {
	return c.alertMutation(ctx, "updateAlert", updateAlertMutation, input)
}

func (c *Client) DeleteAlert(ctx context.Context, input DeleteAlertInput) error {
	result := struct {
		Alert *struct {
			ID string `json:"id"`
		} `json:"alert"`
	}{}

	return c.do(ctx, "deleteAlert", deleteAlertMutation, input, &result)
}

// Login proves ownership of the signer's wallet and starts using the
// returned session.
func (c *Client) Login(ctx context.Context, signer auth.Signer) (*auth.Session, error) {
	timestamp := c.now().Unix()
	publicKey := signer.PublicKey()
	message := publicKey + c.dappAddress + strconv.FormatInt(timestamp, 10)

	signature, err := signer.SignMessage(ctx, []byte(message))
	if err != nil {
		return nil, errors.Wrap(err, "unable to sign login message")
	}

	input := LoginInput{
		WalletPublicKey: publicKey,
		DappAddress:     c.dappAddress,
		Timestamp:       timestamp,
		Signature:       base64.StdEncoding.EncodeToString(signature),
	}

	result := struct {
		User struct {
			Authorization struct {
				Token  string `json:"token"`
				Expiry string `json:"expiry"`
			} `json:"authorization"`
		} `json:"user"`
	}{}

	err = c.do(ctx, "logInFromDapp", logInFromDappMutation, input, &result)
	if err != nil {
		return nil, err
	}

	authorization := result.User.Authorization
	if authorization.Token == "" {
		return nil, &GqlError{Operation: "logInFromDapp", Messages: []string{"no token returned"}}
	}

	session, err := auth.SessionFromToken(authorization.Token)
	if err != nil {
		// Opaque tokens are fine, the expiry then comes from the response only
		session = &auth.Session{Token: authorization.Token}
	}

	if expiry, err := time.Parse(time.RFC3339, authorization.Expiry); err == nil {
		session.ExpiresAt = expiry
	}

	c.UseSession(session)
	return session, nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func (c *Client) alertMutation(ctx context.Context, operation, query string, input interface{}) (*snapshot.Alert, error) {
	result := struct {
		Alert *snapshot.Alert `json:"alert"`
	}{}

	err := c.do(ctx, operation, query, input, &result)
	if err != nil {
		return nil, err
	}

	if result.Alert == nil {
		return nil, &GqlError{Operation: operation}
	}

	return result.Alert, nil
}

func (c *Client) do(ctx context.Context, operation, query string, variables interface{}, out interface{}) error {
	body, err := json.Marshal(gqlRequest{OperationName: operation, Query: query, Variables: variables})
	if err != nil {
		return errors.Wrapf(err, "unable to encode %v request", operation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "unable to create %v request", operation)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "govnotify/"+version.Version)

	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	logg.Debugf(colors.Prefix("notifi")+"%v -> %v", operation, c.endpoint)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%v request failed", operation)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrapf(err, "unable to read %v response", operation)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		messages := []string{fmt.Sprintf("%d %v", res.StatusCode, http.StatusText(res.StatusCode))}
		if text := strings.TrimSpace(string(data)); text != "" {
			messages = append(messages, text)
		}
		return &GqlError{Operation: operation, StatusCode: res.StatusCode, Messages: messages}
	}

	response := gqlResponse{}
	err = json.Unmarshal(data, &response)
	if err != nil {
		return errors.Wrapf(err, "unable to decode %v response", operation)
	}

	if len(response.Errors) > 0 {
		gqlErr := &GqlError{Operation: operation, StatusCode: res.StatusCode}
		for _, e := range response.Errors {
			if e.Message != "" {
				gqlErr.Messages = append(gqlErr.Messages, e.Message)
			}
		}
		return gqlErr
	}

	if len(response.Data) == 0 || string(response.Data) == "null" {
		return &GqlError{Operation: operation, StatusCode: res.StatusCode}
	}

	err = json.Unmarshal(response.Data, out)
	if err != nil {
		return errors.Wrapf(err, "unable to decode %v data", operation)
	}

	return nil
}
