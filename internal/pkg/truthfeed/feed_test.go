package truthfeed

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/internal/pkg/entitlements"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usage"
	"gorm.io/gorm"
)

type memTruth struct {
	posts  []*models.TruthPost
	reads  map[string]bool
	nextID uint
}

func newMemTruth() *memTruth {
	return &memTruth{reads: make(map[string]bool)}
}

func (r *memTruth) CreatePost(post *models.TruthPost) error {
	r.nextID++
	post.ID = r.nextID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	r.posts = append(r.posts, post)
	return nil
}

func (r *memTruth) GetPostByUUID(uuid string) (*models.TruthPost, error) {
	for _, p := range r.posts {
		if p.UUID == uuid {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTruth) ListVisibleByTag(tag string, limit int) ([]models.TruthPost, error) {
	var out []models.TruthPost
	for i := len(r.posts) - 1; i >= 0 && len(out) < limit; i-- {
		p := r.posts[i]
		if p.IsVisible && p.EmotionTag == tag {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memTruth) ListHeld(limit int) ([]models.TruthPost, error) {
	var out []models.TruthPost
	for _, p := range r.posts {
		if !p.IsVisible && p.ReviewedAt == nil && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memTruth) MarkReviewed(postID uint, visible bool) error {
	for _, p := range r.posts {
		if p.ID == postID {
			p.IsVisible = visible
		}
	}
	return nil
}

func (r *memTruth) CreateRead(read *models.TruthRead) (bool, error) {
	k := fmt.Sprintf("%d/%d", read.UserID, read.PostID)
	if r.reads[k] {
		return false, nil
	}
	r.reads[k] = true
	return true, nil
}

func (r *memTruth) HasRead(userID, postID uint) (bool, error) {
	return r.reads[fmt.Sprintf("%d/%d", userID, postID)], nil
}

func (r *memTruth) CountPostsByUser(userID uint) (int64, error) {
	var n int64
	for _, p := range r.posts {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

type tokenGrant struct {
	userID uint
	amount int64
	source string
}

type memTokens struct {
	grants []tokenGrant
}

func (r *memTokens) GetOrCreate(userID uint) (*models.SoulTokenAccount, error) {
	return &models.SoulTokenAccount{UserID: userID}, nil
}

func (r *memTokens) AddTokens(userID uint, amount int64, source string) error {
	r.grants = append(r.grants, tokenGrant{userID, amount, source})
	return nil
}

type memEvents struct {
	types []string
}

func (r *memEvents) Create(e *models.EventLog) error {
	r.types = append(r.types, e.EventType)
	return nil
}

type memUsage struct {
	mu       sync.Mutex
	counters map[string]int64
}

func (r *memUsage) k(userID uint, day, kind string) string {
	return fmt.Sprintf("%d/%s/%s", userID, day, kind)
}

func (r *memUsage) Get(userID uint, day, kind string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[r.k(userID, day, kind)], nil
}

func (r *memUsage) Increment(userID uint, day, kind string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := r.k(userID, day, kind)
	r.counters[k]++
	return r.counters[k], nil
}

func (r *memUsage) IncrementWithCeiling(userID uint, day, kind string, limit int64) (bool, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := r.k(userID, day, kind)
	if r.counters[k] >= limit {
		return false, r.counters[k], nil
	}
	r.counters[k]++
	return true, r.counters[k], nil
}

type memEnts struct {
	rows map[uint]*models.Entitlement
}

func (r *memEnts) GetByUserID(userID uint) (*models.Entitlement, error) {
	if row, ok := r.rows[userID]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memEnts) Upsert(ent *models.Entitlement) error {
	r.rows[ent.UserID] = ent
	return nil
}

type memSubs struct {
	tiersByUser map[uint]int
}

func (r *memSubs) GetByProviderSubscriptionID(string) (*models.Subscription, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *memSubs) GetEntitlingByUserID(userID uint) ([]models.Subscription, error) {
	if tier, ok := r.tiersByUser[userID]; ok {
		return []models.Subscription{{UserID: userID, Tier: tier, Status: models.SubscriptionStatusActive}}, nil
	}
	return nil, nil
}

func (r *memSubs) Upsert(*models.Subscription) error { return nil }

type fixture struct {
	svc    *Service
	truth  *memTruth
	tokens *memTokens
	events *memEvents
	usage  *memUsage
}

// newFixture wires a service where user tiers come from tiersByUser
// (absent users are free tier).
func newFixture(tiersByUser map[uint]int) *fixture {
	truth := newMemTruth()
	tokens := &memTokens{}
	events := &memEvents{}
	counters := &memUsage{counters: make(map[string]int64)}
	meter := usage.NewMeter(counters)
	ents := entitlements.NewService(
		&memEnts{rows: make(map[uint]*models.Entitlement)},
		&memSubs{tiersByUser: tiersByUser},
		tiers.Default(),
		nil,
	)
	return &fixture{
		svc:    NewService(truth, tokens, events, meter, ents),
		truth:  truth,
		tokens: tokens,
		events: events,
		usage:  counters,
	}
}

// readCount sums today's read counter rows for a user.
func (f *fixture) readCount(userID uint) int64 {
	f.usage.mu.Lock()
	defer f.usage.mu.Unlock()
	var n int64
	for k, v := range f.usage.counters {
		if strings.HasPrefix(k, fmt.Sprintf("%d/", userID)) && strings.HasSuffix(k, "/"+string(tiers.CounterTruthReads)) {
			n += v
		}
	}
	return n
}

func TestScanContent(t *testing.T) {
	cases := []struct {
		content string
		want    bool
	}{
		{"today was hard but I kept going", false},
		{"I want to end my life", true},
		{"thinking about an Overdose again", true},
		{"the sunset ended it all so beautifully", true}, // substring match is deliberate: review over miss
		{"feeling lighter after therapy", false},
	}
	for _, c := range cases {
		if got := ScanContent(c.content); got != c.want {
			t.Errorf("ScanContent(%q) = %v, want %v", c.content, got, c.want)
		}
	}
}

func TestCreatePostHoldsCrisisContent(t *testing.T) {
	f := newFixture(map[uint]int{1: int(tiers.TierBlaze)})

	res, err := f.svc.CreatePost(1, "I keep thinking about an overdose lately", models.EmotionTagShadow)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Held {
		t.Error("crisis content not held")
	}
	if res.Post.IsVisible {
		t.Error("held post is visible")
	}
	if res.TokensAwarded != 0 {
		t.Errorf("held post awarded %d tokens", res.TokensAwarded)
	}
	if len(f.tokens.grants) != 0 {
		t.Errorf("held post granted tokens: %+v", f.tokens.grants)
	}

	feed, _ := f.svc.GetFeed(20)
	if len(feed) != 0 {
		t.Errorf("held post leaked into the feed: %d items", len(feed))
	}

	held := false
	for _, typ := range f.events.types {
		if typ == models.EventCrisisHeld {
			held = true
		}
	}
	if !held {
		t.Error("no crisis_held event logged")
	}
}

func TestCreatePostRespectsDailyLimit(t *testing.T) {
	f := newFixture(nil) // free tier: 1 post per day

	first, err := f.svc.CreatePost(1, "first truth of the day, still standing", models.EmotionTagLight)
	if err != nil {
		t.Fatal(err)
	}
	if !first.Allowed {
		t.Fatal("first post of the day denied")
	}
	second, err := f.svc.CreatePost(1, "second truth should not make it through", models.EmotionTagLight)
	if err != nil {
		t.Fatal(err)
	}
	if second.Allowed {
		t.Error("second post allowed past the daily limit")
	}
	if second.Decision.Kind != tiers.CounterTruthPosts {
		t.Errorf("denial kind = %s", second.Decision.Kind)
	}
	if second.Post != nil {
		t.Error("denied post was stored")
	}
}

func TestCreatePostRewardsSharing(t *testing.T) {
	f := newFixture(map[uint]int{1: int(tiers.TierSpark)}) // earn rate 2

	res, err := f.svc.CreatePost(1, "sharing this because keeping it in hurts more", models.EmotionTagShadow)
	if err != nil {
		t.Fatal(err)
	}
	if res.TokensAwarded != 10 {
		t.Errorf("sharing reward = %d, want earn rate 2 x 5", res.TokensAwarded)
	}
	if len(f.tokens.grants) != 1 || f.tokens.grants[0].source != models.TokenSourceTruthSharing {
		t.Errorf("grants = %+v", f.tokens.grants)
	}
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(nil)

	if _, err := f.svc.CreatePost(1, "too short", models.EmotionTagLight); !errors.Is(err, ErrInvalidContent) {
		t.Errorf("short content err = %v", err)
	}
	if _, err := f.svc.CreatePost(1, "a perfectly reasonable length post", "golden"); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("bad tag err = %v", err)
	}
}

func TestBalanceFeedAlternates(t *testing.T) {
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	mk := func(tag string, n int) []models.TruthPost {
		posts := make([]models.TruthPost, n)
		for i := 0; i < n; i++ {
			posts[i] = models.TruthPost{
				EmotionTag: tag,
				// newest first, like the repository returns
				CreatedAt: base.Add(-time.Duration(i) * time.Minute),
			}
		}
		return posts
	}

	feed := BalanceFeed(mk(models.EmotionTagLight, 20), mk(models.EmotionTagShadow, 20), 20)
	if len(feed) != 20 {
		t.Fatalf("feed length = %d", len(feed))
	}
	light := 0
	for _, p := range feed {
		if p.EmotionTag == models.EmotionTagLight {
			light++
		}
	}
	if light != 10 {
		t.Errorf("light posts = %d of 20, want an even split", light)
	}
	for i := 1; i < len(feed); i++ {
		if feed[i].EmotionTag == feed[i-1].EmotionTag {
			t.Fatalf("feed not alternating at %d", i)
		}
	}
}

func TestBalanceFeedFillsFromLeftovers(t *testing.T) {
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	light := make([]models.TruthPost, 15)
	for i := range light {
		light[i] = models.TruthPost{EmotionTag: models.EmotionTagLight, CreatedAt: base.Add(-time.Duration(i) * time.Minute)}
	}
	shadow := []models.TruthPost{
		{EmotionTag: models.EmotionTagShadow, CreatedAt: base},
		{EmotionTag: models.EmotionTagShadow, CreatedAt: base.Add(-time.Minute)},
	}

	feed := BalanceFeed(light, shadow, 20)
	if len(feed) != 17 {
		t.Fatalf("feed length = %d, want all 17 available", len(feed))
	}

	feed = BalanceFeed(light, nil, 20)
	if len(feed) != 15 {
		t.Errorf("one-sided feed length = %d", len(feed))
	}
}

func TestReadPostRewardsOnce(t *testing.T) {
	f := newFixture(map[uint]int{2: int(tiers.TierSpark)})

	res, err := f.svc.CreatePost(1, "someone out there needed to hear this today", models.EmotionTagLight)
	if err != nil {
		t.Fatal(err)
	}
	id := res.Post.UUID

	first, err := f.svc.ReadPost(2, id)
	if err != nil {
		t.Fatal(err)
	}
	if first.TokensAwarded != 2 {
		t.Errorf("first read reward = %d, want earn rate 2", first.TokensAwarded)
	}

	second, err := f.svc.ReadPost(2, id)
	if err != nil {
		t.Fatal(err)
	}
	if second.TokensAwarded != 0 {
		t.Error("re-read was rewarded")
	}
}

func TestReadOwnPostNotMeteredOrRewarded(t *testing.T) {
	f := newFixture(nil) // free tier: 10 reads per day

	res, err := f.svc.CreatePost(1, "writing to my future self, mostly", models.EmotionTagLight)
	if err != nil {
		t.Fatal(err)
	}

	grants := len(f.tokens.grants)
	for i := 0; i < 15; i++ {
		if _, err := f.svc.ReadPost(1, res.Post.UUID); err != nil {
			t.Fatalf("own read %d: %v", i, err)
		}
	}
	if len(f.tokens.grants) != grants {
		t.Error("own reads granted tokens")
	}
}

func TestReadPostLimit(t *testing.T) {
	f := newFixture(nil) // free tier: 10 reads per day

	var ids []string
	for i := 0; i < 12; i++ {
		res, err := f.svc.CreatePost(uint(100+i), "a different author every time for reading", models.EmotionTagLight)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, res.Post.UUID)
	}

	for i := 0; i < 10; i++ {
		res, err := f.svc.ReadPost(2, ids[i])
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("read %d denied below the limit", i)
		}
	}
	res, err := f.svc.ReadPost(2, ids[10])
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Error("11th read allowed past the daily limit")
	}
	if res.Decision.Kind != tiers.CounterTruthReads {
		t.Errorf("denial kind = %s", res.Decision.Kind)
	}
}

func TestRereadSurvivesExhaustedLimit(t *testing.T) {
	f := newFixture(nil) // free tier: 10 reads per day

	var ids []string
	for i := 0; i < 10; i++ {
		res, err := f.svc.CreatePost(uint(100+i), "a different author every time for reading", models.EmotionTagLight)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, res.Post.UUID)
	}

	for _, id := range ids {
		if res, err := f.svc.ReadPost(2, id); err != nil || !res.Allowed {
			t.Fatalf("read of %s: allowed=%v err=%v", id, res != nil && res.Allowed, err)
		}
	}

	// quota is gone, but every post above was already read
	reread, err := f.svc.ReadPost(2, ids[0])
	if err != nil {
		t.Fatalf("re-read after exhausted limit: %v", err)
	}
	if !reread.Allowed {
		t.Error("re-read of an already-read post denied")
	}
	if reread.TokensAwarded != 0 {
		t.Errorf("re-read rewarded %d tokens", reread.TokensAwarded)
	}
	if got := f.readCount(2); got != 10 {
		t.Errorf("read counter = %d after re-read, want 10", got)
	}
}

func TestRereadDoesNotConsumeQuota(t *testing.T) {
	f := newFixture(nil)

	res, err := f.svc.CreatePost(1, "one post read twice by the same reader", models.EmotionTagLight)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := f.svc.ReadPost(2, res.Post.UUID); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
	}
	if got := f.readCount(2); got != 1 {
		t.Errorf("read counter = %d after reading one distinct post twice, want 1", got)
	}
}

func TestReadHeldPostIsNotFound(t *testing.T) {
	f := newFixture(nil)

	res, err := f.svc.CreatePost(1, "I keep thinking about an overdose lately", models.EmotionTagShadow)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ReadPost(2, res.Post.UUID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("held post read err = %v, want ErrPostNotFound", err)
	}
}
