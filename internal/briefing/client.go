// Package briefing delivers the strategy digest to the campaign strategist
// via the Telegram Bot API: seats needed, the top-ranked battlegrounds, and
// the first majority-reaching scenario.
//
// Delivery uses MarkdownV2 formatting and bounded linear-backoff retries for
// resilience against rate limiting and transient network failures.
package briefing

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/openelect/wardcast/internal/models"
)

// Client handles Telegram briefing delivery
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new briefing client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendDigest sends the strategy digest covering the path to control and the
// top-K ranked battlegrounds.
func (c *Client) SendDigest(path models.PathToControl, ranked []models.RankedWard, topK int) error {
	msg := tgbotapi.NewMessage(c.chatID, FormatDigest(path, ranked, topK))
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed to send briefing after %d retries: %w", c.maxRetries, lastErr)
}

// FormatDigest renders the digest as a MarkdownV2 message. Exported so the
// CLI can print the same digest when Telegram delivery is disabled.
func FormatDigest(path models.PathToControl, ranked []models.RankedWard, topK int) string {
	message := fmt.Sprintf("*%s — Path to Control*\n\n", escapeMarkdownV2(path.Party))
	message += fmt.Sprintf("Seats: %d of %d \\(threshold %d, need %d more\\)\n\n",
		path.CurrentSeats, path.TotalSeats, path.MajorityThreshold, path.SeatsNeeded)

	for _, scenario := range path.Scenarios {
		if scenario.MajorityReached {
			prob := escapeMarkdownV2(fmt.Sprintf("%.0f%%", scenario.CumulativeProbability*100))
			message += fmt.Sprintf("✅ Majority reachable after the best %d wards \\(cumulative probability %s\\)\n\n",
				scenario.WardsConsidered, prob)
			break
		}
	}

	if topK > len(ranked) {
		topK = len(ranked)
	}
	if topK > 0 {
		message += "*Top battlegrounds*\n"
	}
	for i := 0; i < topK; i++ {
		rw := ranked[i]
		winProb := escapeMarkdownV2(fmt.Sprintf("%.0f%%", rw.WinProbability*100))
		message += fmt.Sprintf("%d\\. %s — score %d, %s, win %s\n",
			i+1,
			escapeMarkdownV2(rw.Prediction.Ward),
			rw.Score,
			escapeMarkdownV2(string(rw.Classification)),
			winProb)
		if len(rw.TalkingPoints) > 0 {
			message += fmt.Sprintf("   _%s_\n", escapeMarkdownV2(rw.TalkingPoints[0].Text))
		}
	}

	if len(path.VulnerableSeats) > 0 {
		message += fmt.Sprintf("\n⚠️ %d defended seats at risk, worst: %s\n",
			len(path.VulnerableSeats),
			escapeMarkdownV2(path.VulnerableSeats[0].Prediction.Ward))
	}
	return message
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	result := ""
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			result += "\\" + string(char)
		default:
			result += string(char)
		}
	}
	return result
}
