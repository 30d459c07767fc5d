// Package domain defines the per-platform dispatch profiles: how a platform
// is recognized among a tenant's connections, which catalog tools can post
// to it, how a post payload maps onto tool arguments, and how a posted id
// becomes a view URL.
package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
)

// maxPostRunes is the X post length ceiling; reply decoration truncates to
// truncatedRunes and appends an ellipsis when the decorated text is over
// budget.
const (
	maxPostRunes    = 280
	truncatedRunes  = 277
	truncationYield = "..."
)

// Profile describes how to dispatch posts for one platform.
type Profile struct {
	// Platform is the queue platform this profile serves.
	Platform queueDomain.Platform

	// ConnectionKeywords identify the platform among a tenant's connections.
	ConnectionKeywords []string

	// Toolkits scope the catalog tool listing.
	Toolkits []string

	// ExactTools are tried in order against the live catalog.
	ExactTools []string

	// FuzzyInclude and FuzzyExclude drive the fallback tool match when no
	// exact candidate exists in the catalog.
	FuzzyInclude []string
	FuzzyExclude []string

	// BuildArguments maps a validated post payload onto tool arguments.
	BuildArguments func(payload queueDomain.PostPayload) (map[string]interface{}, error)

	// ViewURL derives a human-facing URL from the posted id and the raw
	// execution response. Empty when the platform exposes none.
	ViewURL func(externalRef string, response map[string]interface{}) string
}

// Profiles returns the dispatch profile per supported platform.
func Profiles() map[queueDomain.Platform]*Profile {
	return map[queueDomain.Platform]*Profile{
		queueDomain.PlatformX:        xProfile(),
		queueDomain.PlatformReddit:   redditProfile(),
		queueDomain.PlatformLinkedIn: linkedInProfile(),
	}
}

// ConnectionKeywordsByPlatform returns the keyword sets used for connection
// classification, keyed by platform name.
func ConnectionKeywordsByPlatform() map[string][]string {
	keywords := make(map[string][]string)
	for platform, profile := range Profiles() {
		keywords[string(platform)] = profile.ConnectionKeywords
	}
	return keywords
}

func xProfile() *Profile {
	return &Profile{
		Platform:           queueDomain.PlatformX,
		ConnectionKeywords: []string{"twitter", "x-app", "xdotcom"},
		Toolkits:           []string{"twitter", "x"},
		ExactTools: []string{
			"TWITTER_CREATION_OF_A_POST",
			"TWITTER_CREATE_POST",
			"X_CREATE_POST",
		},
		FuzzyInclude: []string{"creation", "post"},
		FuzzyExclude: []string{"retweet", "dm"},
		BuildArguments: func(payload queueDomain.PostPayload) (map[string]interface{}, error) {
			text := payload.Text
			if text == "" {
				return nil, fmt.Errorf("x posts require text")
			}

			args := map[string]interface{}{}
			if payload.ReplyToExternalID != "" {
				text = DecorateReply(text, payload.ReplyToAuthor)
				args["reply__in__reply__to__tweet__id"] = payload.ReplyToExternalID
			}
			args["text"] = text
			return args, nil
		},
		ViewURL: func(externalRef string, _ map[string]interface{}) string {
			if externalRef == "" {
				return ""
			}
			return fmt.Sprintf("https://x.com/i/web/status/%s", externalRef)
		},
	}
}

func redditProfile() *Profile {
	return &Profile{
		Platform:           queueDomain.PlatformReddit,
		ConnectionKeywords: []string{"reddit"},
		Toolkits:           []string{"reddit"},
		ExactTools: []string{
			"REDDIT_CREATE_REDDIT_POST",
			"REDDIT_CREATE_POST",
		},
		FuzzyInclude: []string{"create", "post"},
		FuzzyExclude: []string{"comment"},
		BuildArguments: func(payload queueDomain.PostPayload) (map[string]interface{}, error) {
			if payload.Subreddit == "" {
				return nil, fmt.Errorf("reddit posts require a subreddit")
			}
			if payload.Title == "" {
				return nil, fmt.Errorf("reddit posts require a title")
			}

			args := map[string]interface{}{
				"subreddit": strings.TrimPrefix(payload.Subreddit, "r/"),
				"title":     payload.Title,
			}
			switch payload.Kind {
			case queueDomain.PostKindLink:
				if payload.URL == "" {
					return nil, fmt.Errorf("reddit link posts require a url")
				}
				args["kind"] = "link"
				args["url"] = payload.URL
			default:
				args["kind"] = "self"
				args["text"] = payload.Text
			}
			if payload.FlairID != "" {
				args["flair_id"] = payload.FlairID
			}
			return args, nil
		},
		ViewURL: func(_ string, response map[string]interface{}) string {
			permalink := stringField(response, "permalink")
			if permalink == "" {
				if data, ok := response["data"].(map[string]interface{}); ok {
					permalink = stringField(data, "permalink")
				}
			}
			if permalink == "" {
				return ""
			}
			if strings.HasPrefix(permalink, "/") {
				return "https://www.reddit.com" + permalink
			}
			return permalink
		},
	}
}

func linkedInProfile() *Profile {
	return &Profile{
		Platform:           queueDomain.PlatformLinkedIn,
		ConnectionKeywords: []string{"linkedin"},
		Toolkits:           []string{"linkedin"},
		ExactTools: []string{
			"LINKEDIN_CREATE_LINKED_IN_POST",
			"LINKEDIN_CREATE_POST",
		},
		FuzzyInclude: []string{"create", "post"},
		FuzzyExclude: []string{"comment"},
		BuildArguments: func(payload queueDomain.PostPayload) (map[string]interface{}, error) {
			if payload.Text == "" {
				return nil, fmt.Errorf("linkedin posts require text")
			}
			return map[string]interface{}{
				"commentary": payload.Text,
			}, nil
		},
		ViewURL: func(_ string, _ map[string]interface{}) string {
			return ""
		},
	}
}

// DecorateReply prepends the @mention of the post being replied to and
// truncates the result when it exceeds the platform's length ceiling. The
// mention keeps the reply threaded for clients that render by text.
func DecorateReply(text, author string) string {
	decorated := text
	if author != "" {
		mention := "@" + strings.TrimPrefix(author, "@")
		if !strings.HasPrefix(decorated, mention) {
			decorated = mention + " " + decorated
		}
	}

	if utf8.RuneCountInString(decorated) > maxPostRunes {
		runes := []rune(decorated)
		decorated = string(runes[:truncatedRunes]) + truncationYield
	}
	return decorated
}

func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if value, ok := m[key].(string); ok {
		return value
	}
	return ""
}
