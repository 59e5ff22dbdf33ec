package controllers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quiznest/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// TranslateController proxies the create-set UI's field pre-fill to the
// public translate endpoint. Thin wrapper, no persistence involved.
type TranslateController struct {
	Client *http.Client
}

func NewTranslateController() *TranslateController {
	return &TranslateController{
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (tc *TranslateController) Translate(c *fiber.Ctx) error {
	type TranslateInput struct {
		Text       string `json:"text"`
		SourceLang string `json:"sourceLang"`
		TargetLang string `json:"targetLang"`
	}

	var input TranslateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Text == "" || input.SourceLang == "" || input.TargetLang == "" {
		return utils.BadRequest(c, "text, sourceLang and targetLang are required")
	}

	endpoint := "https://translate.googleapis.com/translate_a/single?client=gtx&dt=t" +
		"&sl=" + url.QueryEscape(input.SourceLang) +
		"&tl=" + url.QueryEscape(input.TargetLang) +
		"&q=" + url.QueryEscape(input.Text)

	resp, err := tc.Client.Get(endpoint)
	if err != nil {
		return utils.Error(c, fiber.StatusBadGateway, "Translation failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return utils.Error(c, fiber.StatusBadGateway, "Translation failed")
	}

	// Response is a nested array; the first element holds the translated
	// segments as [[translated, original, ...], ...]
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload) == 0 {
		return utils.Error(c, fiber.StatusBadGateway, "Translation failed")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return utils.Error(c, fiber.StatusBadGateway, "Translation failed")
	}

	var sb strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var text string
		if err := json.Unmarshal(segment[0], &text); err == nil {
			sb.WriteString(text)
		}
	}

	return c.JSON(fiber.Map{"translation": sb.String()})
}
