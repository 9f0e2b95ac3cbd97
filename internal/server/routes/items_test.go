package routes

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func decodeList(t *testing.T, body string) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("invalid json %s: %v", body, err)
	}
	return out
}

func TestItemByIDOrClassName(t *testing.T) {
	srv := newTestServer(t, defaultObjects(), nil)

	status, body, _ := srv.get(t, "/v2/items/12")
	if status != fiber.StatusOK || decodeObject(t, body)["class_name"] != "ability_charged_tackle" {
		t.Fatalf("unexpected item %d %s", status, body)
	}

	status, body, _ = srv.get(t, "/v2/items/upgrade_sprint_booster")
	if status != fiber.StatusOK || decodeObject(t, body)["id"] != float64(13) {
		t.Fatalf("unexpected item %d %s", status, body)
	}

	status, body, _ = srv.get(t, "/v2/items/unknown_item")
	if status != fiber.StatusNotFound || body != `{"message":"item not found (id_or_classname: unknown_item)"}` {
		t.Fatalf("unexpected missing item %d %s", status, body)
	}

	status, body, _ = srv.get(t, "/v2/items/12abc")
	if status != fiber.StatusNotFound || body != `{"message":"item not found (id_or_classname: 12abc)"}` {
		t.Fatalf("numeric prefix must not match item 12, got %d %s", status, body)
	}
}

func TestItemsByHeroExcludesMovementAbilities(t *testing.T) {
	srv := newTestServer(t, defaultObjects(), nil)

	status, body, _ := srv.get(t, "/v2/items/by-hero-id/1")
	if status != fiber.StatusOK {
		t.Fatalf("unexpected status %d %s", status, body)
	}
	items := decodeList(t, body)
	if len(items) != 2 {
		t.Fatalf("expected weapon and tackle only, got %s", body)
	}
	for _, item := range items {
		if item["class_name"] == "citadel_ability_dash" {
			t.Fatalf("movement abilities must be filtered")
		}
	}

	status, body, _ = srv.get(t, "/v2/items/by-hero-id/999")
	if status != fiber.StatusOK || body != `[]` {
		t.Fatalf("unknown hero should yield an empty list, got %d %s", status, body)
	}

	if status, _, _ := srv.get(t, "/v2/items/by-hero-id/abc"); status != fiber.StatusNotFound {
		t.Fatalf("non-integer hero id should be 404, got %d", status)
	}
}

func TestItemsBySlotType(t *testing.T) {
	srv := newTestServer(t, defaultObjects(), nil)

	status, body, _ := srv.get(t, "/v2/items/by-slot-type/ability")
	if status != fiber.StatusOK || len(decodeList(t, body)) != 2 {
		t.Fatalf("unexpected abilities %d %s", status, body)
	}

	status, body, _ = srv.get(t, "/v2/items/by-slot-type/tech")
	if status != fiber.StatusOK || body != `[]` {
		t.Fatalf("unexpected tech items %d %s", status, body)
	}

	status, body, _ = srv.get(t, "/v2/items/by-slot-type/hat")
	want := `{"message":"item type not found (type: hat) - must be one of weapon, ability, upgrade, tech, armor)"}`
	if status != fiber.StatusNotFound || body != want {
		t.Fatalf("unexpected invalid slot response %d %s", status, body)
	}
}
