package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// Client wraps the bot API for the handful of operations the webhook
// handler needs: replying with text or voice, and pulling voice notes
// down to local files.
type Client struct {
	bot        *tgbotapi.BotAPI
	audioDir   string
	httpClient *http.Client
}

// NewClient authenticates against the bot API.
func NewClient(token, audioDir string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	log.Printf("[telegram] authorized as @%s", bot.Self.UserName)

	return &Client{
		bot:        bot,
		audioDir:   audioDir,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// RegisterWebhook points the bot at our webhook URL with the shared
// secret token Telegram will echo back on every update.
func (c *Client) RegisterWebhook(baseURL, secret string) error {
	params := tgbotapi.Params{}
	params["url"] = baseURL + "/"
	params["secret_token"] = secret

	resp, err := c.bot.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("set webhook rejected: %s", resp.Description)
	}
	log.Printf("[telegram] webhook registered at %s/", baseURL)
	return nil
}

// SendText sends a plain text message to the chat.
func (c *Client) SendText(chatID int64, text string) error {
	_, err := c.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendVoice sends a local audio file as a voice note.
func (c *Client) SendVoice(chatID int64, path string) error {
	_, err := c.bot.Send(tgbotapi.NewVoice(chatID, tgbotapi.FilePath(path)))
	return err
}

// DownloadVoice fetches a voice note by file id into a uniquely named
// file under the audio dir and returns its path. The random suffix keeps
// concurrent downloads of the same note from colliding.
func (c *Client) DownloadVoice(ctx context.Context, fileID string) (string, error) {
	directURL, err := c.bot.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, directURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download voice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download voice: status %d", resp.StatusCode)
	}

	path := filepath.Join(c.audioDir, fmt.Sprintf("nomadai-voice-%s-%s.oga", fileID, uuid.NewString()))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create voice file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write voice file: %w", err)
	}
	return path, nil
}
