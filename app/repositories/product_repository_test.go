package repositories

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseSort(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bson.D
	}{
		{"default newest first", "", bson.D{{Key: "created_at", Value: -1}}},
		{"single ascending", "price", bson.D{{Key: "price", Value: 1}}},
		{"single descending", "-price", bson.D{{Key: "price", Value: -1}}},
		{"multi field", "price,-createdAt", bson.D{
			{Key: "price", Value: 1},
			{Key: "created_at", Value: -1},
		}},
		{"camelCase mapped", "-updatedAt", bson.D{{Key: "updated_at", Value: -1}}},
		{"unknown field dropped", "owner,price", bson.D{{Key: "price", Value: 1}}},
		{"all unknown falls back", "owner,_id", bson.D{{Key: "created_at", Value: -1}}},
		{"whitespace tolerated", " title , -price ", bson.D{
			{Key: "title", Value: 1},
			{Key: "price", Value: -1},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseSort(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("parseSort(%q) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("parseSort(%q)[%d] = %v, want %v", tc.in, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestBuildFilterKeywordEscaped(t *testing.T) {
	filter := buildFilter(ListOptions{Keyword: "100% (cotton)"})

	or, ok := filter["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected $or over two fields, got %v", filter)
	}
	rx := or[0].(bson.M)["title"].(primitive.Regex)
	if rx.Options != "i" {
		t.Errorf("regex options = %q, want i", rx.Options)
	}
	// Metacharacters must be quoted so the keyword is a literal substring.
	if rx.Pattern == "100% (cotton)" {
		t.Errorf("pattern %q was not escaped", rx.Pattern)
	}
}

func TestBuildFilterOwnerScope(t *testing.T) {
	oid := primitive.NewObjectID()
	filter := buildFilter(ListOptions{Owner: oid.Hex()})

	got, ok := filter["owner"].(primitive.ObjectID)
	if !ok || got != oid {
		t.Errorf("owner filter = %v, want %v", filter["owner"], oid)
	}

	// A malformed owner hex must not leak into the filter.
	filter = buildFilter(ListOptions{Owner: "nope"})
	if _, ok := filter["owner"]; ok {
		t.Error("malformed owner id produced a filter entry")
	}
}

func TestPaginateMath(t *testing.T) {
	cases := []struct {
		name        string
		page, limit int
		total       int64
		wantPages   int
		wantNext    bool
		wantPrev    bool
	}{
		{"first of many", 1, 12, 25, 3, true, false},
		{"middle page", 2, 12, 25, 3, true, true},
		{"last page", 3, 12, 25, 3, false, true},
		{"exact fit", 2, 10, 20, 2, false, true},
		{"empty result", 1, 12, 0, 0, false, false},
		{"single item", 1, 12, 1, 1, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := paginate(tc.page, tc.limit, tc.total)
			if p.TotalPages != tc.wantPages {
				t.Errorf("totalPages = %d, want %d", p.TotalPages, tc.wantPages)
			}
			if p.HasNextPage != tc.wantNext {
				t.Errorf("hasNextPage = %v, want %v", p.HasNextPage, tc.wantNext)
			}
			if p.HasPrevPage != tc.wantPrev {
				t.Errorf("hasPrevPage = %v, want %v", p.HasPrevPage, tc.wantPrev)
			}
			if p.TotalItems != tc.total {
				t.Errorf("totalItems = %d, want %d", p.TotalItems, tc.total)
			}
		})
	}
}

func TestNormalizePage(t *testing.T) {
	page, limit := normalizePage(0, 0)
	if page != 1 {
		t.Errorf("page = %d, want 1", page)
	}
	if limit != 12 {
		t.Errorf("default limit = %d, want 12", limit)
	}

	_, limit = normalizePage(1, 5000)
	if limit != 100 {
		t.Errorf("capped limit = %d, want 100", limit)
	}
}
