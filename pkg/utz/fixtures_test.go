package utz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Fixture models covering the relation shapes the resolver has to handle.

type testUser struct {
	ID        string `gorm:"primaryKey;size:36"`
	Email     string `gorm:"size:255"`
	Timezone  string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type testArticle struct {
	ID          string `gorm:"primaryKey;size:36"`
	Title       string
	AuthorID    string    `gorm:"size:36;index"`
	Author      *testUser `gorm:"foreignKey:AuthorID"`
	PublishedAt time.Time
	CreatedAt   time.Time
}

// testComment reaches the user only through testArticle.
type testComment struct {
	ID        string `gorm:"primaryKey;size:36"`
	Body      string
	ArticleID string       `gorm:"size:36;index"`
	Article   *testArticle `gorm:"foreignKey:ArticleID"`
	CreatedAt time.Time
}

// testReview has both an indirect path (Article, declared first) and a
// direct one (Reviewer). The direct relation must win.
type testReview struct {
	ID         string       `gorm:"primaryKey;size:36"`
	ArticleID  string       `gorm:"size:36"`
	Article    *testArticle `gorm:"foreignKey:ArticleID"`
	ReviewerID string       `gorm:"size:36"`
	Reviewer   *testUser    `gorm:"foreignKey:ReviewerID"`
	CreatedAt  time.Time
}

// testOrphan has no relations at all.
type testOrphan struct {
	ID        uint `gorm:"primaryKey"`
	Note      string
	CreatedAt time.Time
}

// testMeta is relational dead end used by testAudit.
type testMeta struct {
	ID    uint `gorm:"primaryKey"`
	Label string
}

// testAudit's first relational branch (Meta) leads nowhere; the path through
// Article is only reachable with an exhaustive search.
type testAudit struct {
	ID        uint `gorm:"primaryKey"`
	MetaID    uint
	Meta      *testMeta    `gorm:"foreignKey:MetaID"`
	ArticleID string       `gorm:"size:36"`
	Article   *testArticle `gorm:"foreignKey:ArticleID"`
	CreatedAt time.Time
}

// testNode is self-referential; discovery must refuse to walk the cycle.
type testNode struct {
	ID        uint `gorm:"primaryKey"`
	ParentID  *uint
	Parent    *testNode `gorm:"foreignKey:ParentID"`
	CreatedAt time.Time
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry(Config{})
	require.NoError(t, reg.RegisterUserModel(&testUser{}, "Timezone"))
	return reg
}
