package routes

import (
	"fmt"
	"testing"

	"quiznest/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestCreateSetValidation(t *testing.T) {
	status, body := doJSON(t, app, jsonRequest("POST", "/api/sets/", aliceToken, fiber.Map{
		"title":      "",
		"flashcards": []fiber.Map{{"question": "q", "answer": "a"}},
	}))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Title is required", body["message"])

	status, body = doJSON(t, app, jsonRequest("POST", "/api/sets/", aliceToken, fiber.Map{
		"title":      "No Cards",
		"flashcards": []fiber.Map{},
	}))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "At least one flashcard is required", body["message"])

	status, _ = doJSON(t, app, jsonRequest("POST", "/api/sets/", aliceToken, fiber.Map{
		"title":      "Blank Card",
		"flashcards": []fiber.Map{{"question": "q", "answer": "  "}},
	}))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateSetUpdatesStats(t *testing.T) {
	_, token := registerUser(t, "Frank", "frank@example.com")

	body := createSet(t, token, fiber.Map{
		"title":       "Spanish Basics",
		"description": "Greetings",
		"isPublic":    true,
		"flashcards": []fiber.Map{
			{"question": "hello", "answer": "hola", "difficulty": "EASY"},
			{"question": "goodbye", "answer": "adios", "difficulty": "HARD"},
		},
	})

	assert.Equal(t, "Spanish Basics", body["title"])
	assert.NotEmpty(t, body["shareId"])
	cards := responseCards(body)
	assert.Len(t, cards, 2)
	assert.Equal(t, "hello", cards[0]["question"])
	assert.Equal(t, "EASY", cards[0]["difficulty"])
	assert.Equal(t, false, cards[0]["isBookmarked"])

	status, stats := doJSON(t, app, jsonRequest("GET", "/api/users/stats", token, nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), stats["totalSets"])
	assert.Equal(t, float64(2), stats["totalCards"])
}

func TestCreateSetSkipPolicyKeepsValidCards(t *testing.T) {
	_, token := registerUser(t, "Grace", "grace@example.com")

	status, body := doJSON(t, skipApp, jsonRequest("POST", "/api/sets/", token, fiber.Map{
		"title": "Partial",
		"flashcards": []fiber.Map{
			{"question": "kept", "answer": "yes"},
			{"question": "", "answer": "dropped"},
			{"question": "also kept", "answer": "yes"},
		},
	}))

	assert.Equal(t, fiber.StatusCreated, status)
	cards := responseCards(body)
	assert.Len(t, cards, 2)
	assert.Equal(t, "kept", cards[0]["question"])
	assert.Equal(t, "also kept", cards[1]["question"])

	// Only the cards that made it in are counted
	status, stats := doJSON(t, app, jsonRequest("GET", "/api/users/stats", token, nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(2), stats["totalCards"])
}

func TestSetVisibility(t *testing.T) {
	private := createSet(t, aliceToken, fiber.Map{
		"title":      "Alice Private",
		"isPublic":   false,
		"flashcards": []fiber.Map{{"question": "q", "answer": "a"}},
	})
	public := createSet(t, aliceToken, fiber.Map{
		"title":      "Alice Public",
		"isPublic":   true,
		"flashcards": []fiber.Map{{"question": "q", "answer": "a"}},
	})

	status, _ := doJSON(t, app, jsonRequest("GET", fmt.Sprintf("/api/sets/%d", setID(private)), aliceToken, nil))
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = doJSON(t, app, jsonRequest("GET", fmt.Sprintf("/api/sets/%d", setID(private)), bobToken, nil))
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = doJSON(t, app, jsonRequest("GET", fmt.Sprintf("/api/sets/%d", setID(public)), bobToken, nil))
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = doJSON(t, app, jsonRequest("GET", "/api/sets/999999", aliceToken, nil))
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGetUserSetsFiltersByFolder(t *testing.T) {
	_, token := registerUser(t, "Heidi", "heidi@example.com")

	status, folder := doJSON(t, app, jsonRequest("POST", "/api/folders/", token, fiber.Map{
		"name": "Languages",
	}))
	assert.Equal(t, fiber.StatusCreated, status)
	folderID := uint(folder["id"].(float64))

	createSet(t, token, fiber.Map{
		"title":      "Filed",
		"folderId":   folderID,
		"flashcards": []fiber.Map{{"question": "q", "answer": "a"}},
	})
	createSet(t, token, fiber.Map{
		"title":      "Loose",
		"flashcards": []fiber.Map{{"question": "q", "answer": "a"}},
	})

	status, all := doJSONList(t, app, jsonRequest("GET", "/api/sets/", token, nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, all, 2)

	status, filed := doJSONList(t, app, jsonRequest("GET", fmt.Sprintf("/api/sets/?folderId=%d", folderID), token, nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, filed, 1)
	assert.Equal(t, "Filed", filed[0].(map[string]interface{})["title"])
	assert.Equal(t, float64(1), filed[0].(map[string]interface{})["flashcardsCount"])
}

func TestRecentSetsPagination(t *testing.T) {
	createSet(t, aliceToken, fiber.Map{
		"title":      "Recent Public",
		"isPublic":   true,
		"flashcards": []fiber.Map{{"question": "q", "answer": "a"}},
	})

	status, body := doJSON(t, app, jsonRequest("GET", "/api/sets/recent?limit=2&page=1", bobToken, nil))
	assert.Equal(t, fiber.StatusOK, status)

	sets := body["sets"].([]interface{})
	assert.LessOrEqual(t, len(sets), 2)
	first := sets[0].(map[string]interface{})
	assert.NotEmpty(t, first["user"])

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["limit"])
	assert.Equal(t, float64(1), pagination["page"])
	assert.GreaterOrEqual(t, pagination["total"].(float64), float64(1))
}

func TestDeleteSetRemovesCardsAndBookmarks(t *testing.T) {
	_, token := registerUser(t, "Ivan", "ivan@example.com")

	body := createSet(t, token, fiber.Map{
		"title":      "Doomed",
		"flashcards": []fiber.Map{{"question": "q", "answer": "a"}},
	})
	id := setID(body)
	cardID := uint(responseCards(body)[0]["id"].(float64))

	status, _ := doJSON(t, app, jsonRequest("PUT", fmt.Sprintf("/api/flashcards/%d/bookmark", cardID), token, fiber.Map{
		"bookmarked": true,
	}))
	assert.Equal(t, fiber.StatusOK, status)

	// Only the owner may delete
	status, _ = doJSON(t, app, jsonRequest("DELETE", fmt.Sprintf("/api/sets/%d", id), bobToken, nil))
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = doJSON(t, app, jsonRequest("DELETE", fmt.Sprintf("/api/sets/%d", id), token, nil))
	assert.Equal(t, fiber.StatusOK, status)

	var cardCount, bookmarkCount int64
	db.Model(&models.Flashcard{}).Where("set_id = ?", id).Count(&cardCount)
	db.Model(&models.FlashcardBookmark{}).Where("flashcard_id = ?", cardID).Count(&bookmarkCount)
	assert.Equal(t, int64(0), cardCount)
	assert.Equal(t, int64(0), bookmarkCount)

	status, _ = doJSON(t, app, jsonRequest("GET", fmt.Sprintf("/api/sets/%d", id), token, nil))
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestFolderLifecycle(t *testing.T) {
	_, token := registerUser(t, "Judy", "judy@example.com")

	status, folder := doJSON(t, app, jsonRequest("POST", "/api/folders/", token, fiber.Map{
		"name": "Chemistry",
	}))
	assert.Equal(t, fiber.StatusCreated, status)
	folderID := uint(folder["id"].(float64))

	set := createSet(t, token, fiber.Map{
		"title":      "Periodic Table",
		"flashcards": []fiber.Map{{"question": "H", "answer": "Hydrogen"}},
	})

	status, _ = doJSON(t, app, jsonRequest("POST", fmt.Sprintf("/api/sets/%d/folder", setID(set)), token, fiber.Map{
		"folderId": folderID,
	}))
	assert.Equal(t, fiber.StatusOK, status)

	status, got := doJSON(t, app, jsonRequest("GET", fmt.Sprintf("/api/folders/%d", folderID), token, nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), got["setsCount"])

	// Other users cannot see the folder
	status, _ = doJSON(t, app, jsonRequest("GET", fmt.Sprintf("/api/folders/%d", folderID), bobToken, nil))
	assert.Equal(t, fiber.StatusForbidden, status)

	// Deleting the folder detaches its sets but keeps them
	status, _ = doJSON(t, app, jsonRequest("DELETE", fmt.Sprintf("/api/folders/%d", folderID), token, nil))
	assert.Equal(t, fiber.StatusOK, status)

	var stored models.Set
	assert.NoError(t, db.First(&stored, setID(set)).Error)
	assert.Nil(t, stored.FolderID)
}

func TestRemoveSetFromFolder(t *testing.T) {
	_, token := registerUser(t, "Ken", "ken@example.com")

	status, folder := doJSON(t, app, jsonRequest("POST", "/api/folders/", token, fiber.Map{
		"name": "History",
	}))
	assert.Equal(t, fiber.StatusCreated, status)
	folderID := uint(folder["id"].(float64))

	set := createSet(t, token, fiber.Map{
		"title":      "World Wars",
		"folderId":   folderID,
		"flashcards": []fiber.Map{{"question": "q", "answer": "a"}},
	})

	status, _ = doJSON(t, app, jsonRequest("DELETE", fmt.Sprintf("/api/sets/%d/folder", setID(set)), token, nil))
	assert.Equal(t, fiber.StatusOK, status)

	var stored models.Set
	assert.NoError(t, db.First(&stored, setID(set)).Error)
	assert.Nil(t, stored.FolderID)
}
