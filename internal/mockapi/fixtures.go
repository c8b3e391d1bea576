package mockapi

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/model"
)

// fixtureEpoch anchors generated timestamps so fixtures are reproducible.
var fixtureEpoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

var (
	names     = []string{"Blue Cafe", "Northwind", "Atlas Studio", "Greenleaf", "Kite Labs", "Harbor Books", "Solstice", "Copper Pot"}
	people    = []string{"dana", "li.wei", "omar", "sasha", "mateo", "priya", "ken", "ada"}
	countries = []string{"US", "DE", "BR", "IN", "JP", "NG"}
	methods   = []string{"bank", "paypal", "wise"}
	reasons   = []string{"spam", "harassment", "nudity", "scam", "off-topic"}
)

// Fixtures generates a deterministic dataset for every catalog resource.
func Fixtures(seed int64, perResource int) map[string][]model.Record {
	rng := rand.New(rand.NewSource(seed))
	out := make(map[string][]model.Record)
	for _, res := range catalog.All() {
		records := make([]model.Record, 0, perResource)
		for i := 0; i < perResource; i++ {
			records = append(records, model.NewRecord(fixture(rng, res, i)))
		}
		out[res.Name] = records
	}
	return out
}

func fixture(rng *rand.Rand, res catalog.Resource, i int) map[string]any {
	pick := func(xs []string) string { return xs[rng.Intn(len(xs))] }
	status := res.Statuses[rng.Intn(len(res.Statuses))].Value
	created := fixtureEpoch.Add(-time.Duration(i) * 7 * time.Hour).Format(time.RFC3339)

	switch res.Name {
	case catalog.Business:
		return map[string]any{
			"id": fmt.Sprintf("b%03d", i+1), "name": fmt.Sprintf("%s %d", pick(names), i+1),
			"owner": pick(people), "category": pick([]string{"food", "retail", "services"}),
			"status": status, "createdAt": created,
		}
	case catalog.Products:
		// Products come back with Mongo-style identifiers.
		return map[string]any{
			"_id": fmt.Sprintf("p%03d", i+1), "title": fmt.Sprintf("Template pack %d", i+1),
			"creator": pick(people), "price": 5 + rng.Intn(95),
			"status": status, "createdAt": created,
			"business": map[string]any{"_id": fmt.Sprintf("b%03d", rng.Intn(8)+1), "name": pick(names)},
		}
	case catalog.Posts:
		return map[string]any{
			"id": fmt.Sprintf("po%03d", i+1), "content": fmt.Sprintf("Post number %d from %s", i+1, pick(names)),
			"author": pick(people), "likes": rng.Intn(500),
			"status": status, "createdAt": created, "isDeleted": false,
		}
	case catalog.Comments:
		return map[string]any{
			"id": fmt.Sprintf("c%03d", i+1), "text": fmt.Sprintf("Comment %d", i+1),
			"author": pick(people), "postId": fmt.Sprintf("po%03d", rng.Intn(20)+1),
			"status": status, "createdAt": created,
		}
	case catalog.Reports:
		kind := pick([]string{"post", "comment", "user"})
		target := ""
		switch kind {
		case "post":
			target = fmt.Sprintf("po%03d", rng.Intn(20)+1)
		case "comment":
			target = fmt.Sprintf("c%03d", rng.Intn(20)+1)
		case "user":
			target = fmt.Sprintf("u%03d", rng.Intn(20)+1)
		}
		return map[string]any{
			"id": fmt.Sprintf("r%03d", i+1), "reason": pick(reasons), "type": kind,
			"resourceId": target, "reporter": pick(people),
			"userId": fmt.Sprintf("u%03d", rng.Intn(20)+1), "userStatus": "active",
			"status": status, "createdAt": created,
		}
	case catalog.Users:
		return map[string]any{
			"id": fmt.Sprintf("u%03d", i+1), "name": pick(people),
			"email": fmt.Sprintf("user%d@example.com", i+1), "country": pick(countries),
			"status": status, "createdAt": created,
		}
	case catalog.Payouts:
		amount := 100 + rng.Intn(4900)
		return map[string]any{
			"id": fmt.Sprintf("PO-%04d", i+1), "company": pick(names), "country": pick(countries),
			"amount": amount, "netAmount": amount * 97 / 100, "method": pick(methods),
			"monthlyPeriod": fixtureEpoch.AddDate(0, -(i % 6), 0).Format("January 2006"),
			"requestDate":   fixtureEpoch.Add(-time.Duration(i) * 26 * time.Hour).Format("2006-01-02"),
			"status":        status, "isFlagged": false,
		}
	}
	return map[string]any{"id": fmt.Sprintf("%s-%d", res.Name, i+1), "status": status, "createdAt": created}
}
