package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/orx-dev/orx/internal/models"
	"github.com/orx-dev/orx/internal/types"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorGreen  = 65280    // #00FF00 - offer accepted
	ColorRed    = 16711680 // #FF0000 - offer rejected
	ColorBlue   = 3447003  // #3498DB - new activity
	webhookUser = "ORX Marketplace"
)

// NotifyOfferCreated posts new-offer activity to the site webhooks, when
// configured. Failures are the caller's to log; the buyer never sees them.
func NotifyOfferCreated(listing models.Listing, offer models.Offer, buyerName string) error {
	title := "New offer received"
	fields := map[string]string{
		"Listing": listing.Title,
		"Amount":  fmt.Sprintf("%.2f", offer.Amount),
		"From":    buyerName,
	}

	return notify(title, fmt.Sprintf("%s offered %.2f on %q.", buyerName, offer.Amount, listing.Title), ColorBlue, fields)
}

func NotifyOfferDecided(listing models.Listing, offer models.Offer) error {
	color := ColorRed
	if offer.Status == types.OfferAccepted {
		color = ColorGreen
	}

	title := "Offer " + offer.Status
	fields := map[string]string{
		"Listing": listing.Title,
		"Amount":  fmt.Sprintf("%.2f", offer.Amount),
		"Status":  offer.Status,
	}

	return notify(title, fmt.Sprintf("Offer of %.2f on %q was %s.", offer.Amount, listing.Title, offer.Status), color, fields)
}

func NotifyInquiryCreated(listing models.Listing, inquiry models.Inquiry) error {
	title := "New inquiry"
	fields := map[string]string{
		"Listing": listing.Title,
		"From":    fmt.Sprintf("%s <%s>", inquiry.Name, inquiry.Email),
	}

	return notify(title, inquiry.Message, ColorBlue, fields)
}

func notify(title, text string, color int, fields map[string]string) error {
	if discordURL := os.Getenv("ORX_DISCORD_WEBHOOK"); discordURL != "" {
		if err := sendDiscordWebhook(discordURL, title, text, color, fields); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if slackURL := os.Getenv("ORX_SLACK_WEBHOOK"); slackURL != "" {
		if err := sendSlackWebhook(slackURL, title, text, fields); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func sendDiscordWebhook(webhookURL, title, text string, color int, fields map[string]string) error {
	embedFields := make([]DiscordWebhookField, 0, len(fields))

	for name, value := range fields {
		embedFields = append(embedFields, DiscordWebhookField{Name: name, Value: value, Inline: true})
	}

	payload := DiscordWebhookRequest{
		Username: webhookUser,
		Embeds: []DiscordEmbed{
			{
				Title:       title,
				Description: text,
				Color:       color,
				Fields:      embedFields,
				Timestamp:   time.Now().Format(time.RFC3339),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func sendSlackWebhook(webhookURL, title, text string, fields map[string]string) error {
	attachmentFields := make([]SlackField, 0, len(fields))

	for name, value := range fields {
		attachmentFields = append(attachmentFields, SlackField{Title: name, Value: value, Short: true})
	}

	payload := SlackWebhookRequest{
		Username: webhookUser,
		Text:     title,
		Attachments: []SlackAttachment{
			{
				Color:     "#3498DB",
				Title:     title,
				Text:      text,
				Fields:    attachmentFields,
				Timestamp: time.Now().Unix(),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
