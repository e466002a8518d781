package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier delivers a push notification to a single device token. The
// booking flow treats delivery as best-effort: implementations return an
// error for logging only, never to fail the booking.
type Notifier interface {
	Send(token, title, body string, data map[string]string) error
}

// ExpoNotifier posts messages to the Expo push gateway, the same endpoint
// the mobile app registers its tokens against.
type ExpoNotifier struct {
	URL    string
	Client *http.Client
}

func NewExpoNotifier(url string) ExpoNotifier {
	return ExpoNotifier{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type expoMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

type expoReceipt struct {
	Data struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"data"`
}

func (n ExpoNotifier) Send(token, title, body string, data map[string]string) error {
	payload, err := json.Marshal(expoMessage{
		To:    token,
		Sound: "default",
		Title: title,
		Body:  body,
		Data:  data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, n.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("expo push: statut HTTP %d", resp.StatusCode)
	}

	var receipt expoReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return fmt.Errorf("expo push: réponse illisible: %w", err)
	}
	if receipt.Data.Status == "error" {
		return fmt.Errorf("expo push: %s", receipt.Data.Message)
	}
	return nil
}
