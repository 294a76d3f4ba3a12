package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-preliminaries/internal/infra/queue"
)

var errNotFound = errors.New("kommo: contato não encontrado")

// Client cria no Kommo um lead para cada preliminar novo, para o comercial
// retomar o contato de quem abandonou o formulário.
type Client struct {
	apiToken   string
	baseURL    string
	statusID   int
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiToken string, statusID int, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiToken:   apiToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		statusID:   statusID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// NotifyNewLead satisfaz queue.LeadNotifier.
func (c *Client) NotifyNewLead(ctx context.Context, event queue.LeadEvent) error {
	if c.apiToken == "" {
		return fmt.Errorf("kommo não configurado")
	}

	// Primeiro, buscar ou criar o contato pelo telefone
	contactID, err := c.findOrCreateContact(ctx, event)
	if err != nil {
		return fmt.Errorf("erro ao criar/buscar contato: %w", err)
	}

	name := event.Name
	if name == "" {
		name = event.Phone
	}

	leads := []leadPayload{{
		Name:     fmt.Sprintf("Preliminar - %s", name),
		StatusID: c.statusID,
		Embedded: leadEmbedded{
			Tags:     []tag{{Name: TagPreliminary}},
			Contacts: []idOnly{{ID: contactID}},
		},
	}}

	var result embeddedResponse
	if err := c.do(ctx, http.MethodPost, "/leads", leads, &result); err != nil {
		return fmt.Errorf("erro ao criar lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return fmt.Errorf("lead não criado")
	}

	c.logger.Info("kommo lead created",
		zap.Int("kommo_lead_id", result.Embedded.Leads[0].ID),
		zap.String("lead_id", event.LeadID),
	)
	return nil
}

func (c *Client) findOrCreateContact(ctx context.Context, event queue.LeadEvent) (int, error) {
	id, err := c.findContactByPhone(ctx, event.Phone)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, errNotFound) {
		return 0, err
	}
	return c.createContact(ctx, event)
}

func (c *Client) findContactByPhone(ctx context.Context, phone string) (int, error) {
	var result embeddedResponse
	if err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(phone), nil, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errNotFound
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, event queue.LeadEvent) (int, error) {
	contact := contactPayload{
		Name: event.Name,
		CustomFieldsValues: []customField{
			{FieldCode: "PHONE", Values: []fieldValue{{Value: event.Phone, EnumCode: "WORK"}}},
		},
	}
	if event.Email != "" {
		contact.CustomFieldsValues = append(contact.CustomFieldsValues,
			customField{FieldCode: "EMAIL", Values: []fieldValue{{Value: event.Email, EnumCode: "WORK"}}})
	}

	var result embeddedResponse
	if err := c.do(ctx, http.MethodPost, "/contacts", []contactPayload{contact}, &result); err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, fmt.Errorf("erro ao obter ID do contato criado")
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Kommo devolve 204 na busca sem resultado.
	if resp.StatusCode == http.StatusNoContent {
		return errNotFound
	}

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("status %d - %s", resp.StatusCode, string(respBody))
	}
	return json.Unmarshal(respBody, out)
}
