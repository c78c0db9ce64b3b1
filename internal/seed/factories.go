package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"commune/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var groupTopics = []string{
	"General", "Movies", "Music", "Television", "Gaming",
	"Fitness", "Hobbies", "Sports", "Technology",
	"Anime", "Books", "Food", "Travel", "Programming", "Linux",
	"Photography", "Art", "History", "Philosophy", "Science",
	"Pets", "Parenting", "Finance", "Investing", "Homelab",
}

// factory builds domain entities and persists them to the database.
type factory struct {
	db *gorm.DB
	r  *rand.Rand
	// all seed users share one password so bcrypt runs only once
	passwordHash string
	friendPairs  map[[2]uint]bool
}

func newFactory(db *gorm.DB) *factory {
	gofakeit.Seed(time.Now().UnixNano())
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	return &factory{
		db:           db,
		r:            rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec
		passwordHash: string(hashedPassword),
		friendPairs:  make(map[[2]uint]bool),
	}
}

func (f *factory) createUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)

	// Always include some specific users for consistency
	if count >= 3 {
		wellKnown := []struct {
			username string
			staff    bool
		}{
			{"ada", false},
			{"demo", false},
			{"moderator", true},
		}
		for _, w := range wellKnown {
			user := models.User{
				Username:  w.username,
				Email:     fmt.Sprintf("%s@example.com", w.username),
				Password:  f.passwordHash,
				FirstName: strings.ToUpper(w.username[:1]) + w.username[1:],
				IsStaff:   w.staff,
				Profile:   &models.Profile{Bio: "One of the originals.", Status: "Here since day one"},
			}
			if err := f.db.Create(&user).Error; err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		// Index suffix keeps usernames unique without retry loops
		username := strings.ToLower(fmt.Sprintf("%s_%s%d", first, last, i))

		user := models.User{
			Username:  username,
			Email:     fmt.Sprintf("%s@example.com", username),
			Password:  f.passwordHash,
			FirstName: first,
			LastName:  last,
			Profile: &models.Profile{
				Bio:    gofakeit.Sentence(10),
				Status: gofakeit.Sentence(4),
			},
		}
		if f.r.Float32() < 0.5 {
			user.Profile.AvatarRef = fmt.Sprintf("%s.jpg", gofakeit.UUID())
		}

		if err := f.db.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", username, err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

// createSocialMesh wires friendships, follows and pending friend requests
// between the seeded users. Friendships are written as double edges, the
// same shape accepting a friend request produces.
func (f *factory) createSocialMesh(users []models.User) error {
	if len(users) < 2 {
		return nil
	}

	for i := range users {
		for n := 0; n < f.r.Intn(4); n++ {
			other := users[f.r.Intn(len(users))]
			if other.ID == users[i].ID {
				continue
			}
			if err := f.befriend(users[i].ID, other.ID); err != nil {
				return err
			}
		}
	}

	for i := range users {
		for n := 0; n < f.r.Intn(5); n++ {
			other := users[f.r.Intn(len(users))]
			if other.ID == users[i].ID {
				continue
			}
			follow := models.Follow{FollowerID: users[i].ID, FolloweeID: other.ID}
			if err := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error; err != nil {
				return err
			}
		}
	}

	// A few requests stay pending so the inbox is not empty
	for n := 0; n < len(users)/4; n++ {
		sender := users[f.r.Intn(len(users))]
		receiver := users[f.r.Intn(len(users))]
		if sender.ID == receiver.ID || f.areFriends(sender.ID, receiver.ID) {
			continue
		}
		req := models.FriendRequest{SenderID: sender.ID, ReceiverID: receiver.ID}
		if err := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&req).Error; err != nil {
			return err
		}
	}

	return nil
}

func (f *factory) befriend(a, b uint) error {
	if f.areFriends(a, b) {
		return nil
	}
	edges := []models.Friend{
		{UserID: a, FriendID: b},
		{UserID: b, FriendID: a},
	}
	if err := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
		return err
	}
	f.friendPairs[[2]uint{a, b}] = true
	f.friendPairs[[2]uint{b, a}] = true
	return nil
}

func (f *factory) areFriends(a, b uint) bool {
	return f.friendPairs[[2]uint{a, b}]
}

func (f *factory) createGroups(users []models.User, count int) ([]models.Group, error) {
	if len(users) == 0 || count == 0 {
		return nil, nil
	}

	groups := make([]models.Group, 0, count)
	for i := 0; i < count; i++ {
		creator := users[f.r.Intn(len(users))]
		topic := groupTopics[i%len(groupTopics)]
		name := topic
		if i >= len(groupTopics) {
			name = fmt.Sprintf("%s %d", topic, i/len(groupTopics)+1)
		}

		group := models.Group{
			Name:        name,
			Description: gofakeit.Sentence(12),
			CreatorID:   creator.ID,
		}
		if err := f.db.Create(&group).Error; err != nil {
			return nil, err
		}

		// Creators are enrolled as approved managers at creation time
		creatorMembership := models.Membership{
			UserID:   creator.ID,
			GroupID:  group.ID,
			Role:     models.MembershipRoleManager,
			Approved: true,
		}
		if err := f.db.Create(&creatorMembership).Error; err != nil {
			return nil, err
		}

		for n := 0; n < 2+f.r.Intn(5); n++ {
			joiner := users[f.r.Intn(len(users))]
			if joiner.ID == creator.ID {
				continue
			}
			membership := models.Membership{
				UserID:   joiner.ID,
				GroupID:  group.ID,
				Role:     models.MembershipRoleMember,
				Approved: f.r.Float32() < 0.7,
			}
			if err := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&membership).Error; err != nil {
				return nil, err
			}
		}

		groups = append(groups, group)
	}

	return groups, nil
}

func (f *factory) createPosts(users []models.User, count int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[f.r.Intn(len(users))]

		post := models.Post{
			AuthorID:  author.ID,
			Content:   gofakeit.Paragraph(1, 1+f.r.Intn(3), 5, "\n"),
			CreatedAt: f.pastTimestamp(),
		}
		if f.r.Float32() < 0.4 {
			post.ImageRef = fmt.Sprintf("%s.jpg", gofakeit.UUID())
		}
		if err := f.db.Create(&post).Error; err != nil {
			return nil, err
		}

		if err := f.addEngagement(users, &post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, nil
}

func (f *factory) addEngagement(users []models.User, post *models.Post) error {
	var firstComment *models.Comment
	for n := 0; n < f.r.Intn(5); n++ {
		commenter := users[f.r.Intn(len(users))]
		comment := models.Comment{
			AuthorID: commenter.ID,
			PostID:   post.ID,
			Content:  gofakeit.Sentence(8),
		}
		// Thread some replies under the first top-level comment
		if firstComment != nil && f.r.Float32() < 0.3 {
			comment.ParentID = &firstComment.ID
		}
		if err := f.db.Create(&comment).Error; err != nil {
			return err
		}
		if firstComment == nil {
			firstComment = &comment
		}
	}

	for n := 0; n < f.r.Intn(6); n++ {
		liker := users[f.r.Intn(len(users))]
		like := models.Like{UserID: liker.ID, PostID: post.ID}
		if err := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
			return err
		}
	}

	return nil
}

func (f *factory) createGroupPosts(groups []models.Group) error {
	for _, group := range groups {
		var members []models.Membership
		if err := f.db.Where("group_id = ? AND approved = ?", group.ID, true).
			Find(&members).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			continue
		}

		for n := 0; n < 1+f.r.Intn(4); n++ {
			author := members[f.r.Intn(len(members))]
			post := models.GroupPost{
				GroupID:   group.ID,
				AuthorID:  author.UserID,
				Content:   gofakeit.Paragraph(1, 1+f.r.Intn(2), 5, "\n"),
				CreatedAt: f.pastTimestamp(),
			}
			if err := f.db.Create(&post).Error; err != nil {
				return err
			}

			for l := 0; l < f.r.Intn(len(members)+1); l++ {
				liker := members[f.r.Intn(len(members))]
				like := models.GroupPostLike{UserID: liker.UserID, GroupPostID: post.ID}
				if err := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
					return err
				}
			}

			for c := 0; c < f.r.Intn(3); c++ {
				commenter := members[f.r.Intn(len(members))]
				comment := models.GroupComment{
					GroupPostID: post.ID,
					AuthorID:    commenter.UserID,
					Content:     gofakeit.Sentence(8),
				}
				if err := f.db.Create(&comment).Error; err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// pastTimestamp spreads seeded content over the last ~90 days so feeds
// look lived-in instead of stamped all at once.
func (f *factory) pastTimestamp() time.Time {
	daysBack := f.r.Intn(90)
	hoursBack := f.r.Intn(24)
	minsBack := f.r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}
