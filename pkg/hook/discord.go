package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kotrzina/russtea/pkg/store"
	"github.com/kotrzina/russtea/pkg/utils"
)

// Discord posts catalog changes to a Discord channel webhook
// Without a webhook URL every message is silently dropped.
type Discord struct {
	hookURL string
	client  *http.Client
}

func New(hookURL string) *Discord {
	return &Discord{
		hookURL: hookURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *Discord) SendDrinkAdded(ctx context.Context, drink store.Drink) error {
	message := fmt.Sprintf("🍵 **Новый чай в каталоге:** %s (#%s)", drink.Name, drink.ID)
	if drink.Origin != "" {
		message += fmt.Sprintf("\nПроисхождение: %s", drink.Origin)
	}
	message += fmt.Sprintf("\nДобавлен: %s", utils.FormatDate(drink.CreatedDate))

	return d.sendWebhook(ctx, message)
}

func (d *Discord) SendDrinkDeleted(ctx context.Context, drink store.Drink) error {
	message := fmt.Sprintf("🗑 **Чай удален из каталога:** %s (#%s)", drink.Name, drink.ID)
	return d.sendWebhook(ctx, message)
}

func (d *Discord) sendWebhook(ctx context.Context, message string) error {
	if d.hookURL == "" {
		return nil
	}

	body := struct {
		Content string `json:"content"`
	}{
		Content: message,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not marshal data for Discord webhook")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.hookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("could not create Discord webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("could not send Discord webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid response code from Discord webhook: %d", resp.StatusCode)
	}

	return nil
}
