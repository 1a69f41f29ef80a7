// Package blog is a small application declared with thing: users with a
// profile and posts.
package blog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thingorm/thing"
	"github.com/thingorm/thing/builder"
	"github.com/thingorm/thing/schema"
)

// ErrInvalidEmail email without @
var ErrInvalidEmail = errors.New("invalid email")

// Models the blog models
type Models struct {
	User    *thing.Model
	Profile *thing.Model
	Post    *thing.Model
}

// Register declare the blog models on r
func Register(r *thing.Registry) (*Models, error) {
	var (
		models Models
		err    error
	)

	if models.Profile, err = r.Make("Profile", func(a *thing.Assembler) {
		a.Schema(schema.Fields{
			{Name: "user_id", Descriptor: "number"},
			{Name: "bio", Descriptor: "string"},
		})
	}); err != nil {
		return nil, err
	}

	if models.Post, err = r.Make("Post", declarePost); err != nil {
		return nil, err
	}

	if models.User, err = r.Make("User", declareUser); err != nil {
		return nil, err
	}
	return &models, nil
}

// timestamps created_at set once at construction
func timestamps(a *thing.Assembler, _ builder.Executor) {
	a.Attribute("created_at", map[string]interface{}{
		"type":     "date",
		"readonly": true,
		"default":  func() interface{} { return time.Now().UTC().Truncate(time.Millisecond) },
	})
}

func declareUser(a *thing.Assembler) {
	a.Schema(schema.Fields{
		{Name: "name", Descriptor: "string"},
		{Name: "email", Descriptor: "string"},
		{Name: "password", Descriptor: map[string]interface{}{"type": "string", "hidden": true}},
		{Name: "token", Descriptor: map[string]interface{}{
			"type":     "string",
			"readonly": true,
			"default":  func() interface{} { return uuid.NewString() },
		}},
		{Name: "displayName", Descriptor: func(attr *schema.Attribute) {
			attr.Type(schema.Virtual).Getter(func(v schema.Values) interface{} {
				name, _ := v.Get("name").(string)
				email, _ := v.Get("email").(string)
				return name + " <" + email + ">"
			})
		}},
	})
	a.Behavior(timestamps)

	a.HasOne("profile", schema.Relation{
		Model:   "Profile",
		Link:    "profiles.user_id",
		Columns: []string{"id", "bio"},
		Join:    schema.LeftJoin,
	})
	a.HasMany("posts", schema.Relation{
		Model:   "Post",
		Link:    "posts.user_id",
		Columns: []string{"id", "title", "published"},
		Lazy:    true,
	})

	a.Before(thing.EventValidate, func(ctx context.Context, scope *thing.Scope) error {
		email, _ := scope.Instance.Get("email").(string)
		if !strings.Contains(email, "@") {
			return &thing.ValidationError{Attribute: "email", Err: ErrInvalidEmail}
		}
		return nil
	})
	a.Before(thing.EventSave, func(ctx context.Context, scope *thing.Scope) error {
		email, _ := scope.Instance.Get("email").(string)
		return scope.Instance.Set("email", strings.ToLower(strings.TrimSpace(email)))
	})

	a.Static("byEmail", func(ctx context.Context, m *thing.Model, args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, thing.ErrInvalidData
		}
		return m.Find(ctx, thing.Where{"email": args[0]})
	})
}

func declarePost(a *thing.Assembler) {
	a.Schema(schema.Fields{
		{Name: "user_id", Descriptor: "number"},
		{Name: "title", Descriptor: "string"},
		{Name: "body", Descriptor: "string"},
		{Name: "published", Descriptor: map[string]interface{}{"type": "boolean", "default": false}},
	})
	a.Behavior(timestamps)

	a.BelongsTo("author", schema.Relation{
		Model:    "User",
		Link:     "users.id",
		LocalKey: "user_id",
		Columns:  []string{"id", "name", "email"},
		Lazy:     true,
	})

	a.Method("publish", func(ctx context.Context, inst *thing.Instance, args ...interface{}) (interface{}, error) {
		if err := inst.Set("published", true); err != nil {
			return nil, err
		}
		return inst.Save(ctx, thing.Attributes("published"), thing.NoRefetch())
	})
	a.Static("published", func(ctx context.Context, m *thing.Model, args ...interface{}) (interface{}, error) {
		return m.FindMany(ctx, thing.Where{"published": true, "$orderBy": []interface{}{"id", "desc"}})
	})
}
