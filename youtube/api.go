package youtube

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/youtube/v3"
)

// Video is the minimal identifying record returned by every listing
// operation. Field names match the wire shape the gateway serves.
type Video struct {
	ID           string `json:"videoId"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
}

// Search returns up to limit videos matching query.
func (c *Client) Search(ctx context.Context, query string, limit int64) ([]Video, error) {
	if strings.TrimSpace(query) == "" {
		return nil, invalidInput("search query required")
	}
	if limit < 1 {
		return nil, invalidInput("limit must be at least 1")
	}

	svc, err := c.service(ctx)
	if err != nil {
		return nil, Classify(err)
	}

	var videos []Video
	err = c.call(ctx, func(ctx context.Context) error {
		resp, err := svc.Search.List([]string{"snippet"}).
			Q(query).
			Type("video").
			MaxResults(limit).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}

		videos = videos[:0]
		for _, item := range resp.Items {
			// Items without a video id (channels, playlists,
			// malformed entries) are skipped.
			if item.Id == nil || item.Id.VideoId == "" {
				continue
			}
			v := Video{ID: item.Id.VideoId}
			if item.Snippet != nil {
				v.Title = item.Snippet.Title
				v.ChannelTitle = item.Snippet.ChannelTitle
			}
			videos = append(videos, v)
		}
		return nil
	})
	if err != nil {
		return nil, Classify(err)
	}
	return videos, nil
}

// Liked returns up to limit videos the authenticated user has rated "like".
func (c *Client) Liked(ctx context.Context, limit int64) ([]Video, error) {
	if limit < 1 {
		return nil, invalidInput("limit must be at least 1")
	}

	svc, err := c.service(ctx)
	if err != nil {
		return nil, Classify(err)
	}

	var videos []Video
	err = c.call(ctx, func(ctx context.Context) error {
		resp, err := svc.Videos.List([]string{"snippet"}).
			MyRating("like").
			MaxResults(limit).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}

		videos = videos[:0]
		for _, item := range resp.Items {
			if item.Id == "" {
				continue
			}
			v := Video{ID: item.Id}
			if item.Snippet != nil {
				v.Title = item.Snippet.Title
				v.ChannelTitle = item.Snippet.ChannelTitle
			}
			videos = append(videos, v)
		}
		return nil
	})
	if err != nil {
		return nil, Classify(err)
	}
	return videos, nil
}

// Like rates the referenced video "like" on behalf of the user.
func (c *Client) Like(ctx context.Context, videoURL string) (string, error) {
	id, ok := ExtractVideoID(videoURL)
	if !ok {
		return "", invalidReference(videoURL)
	}

	svc, err := c.service(ctx)
	if err != nil {
		return "", Classify(err)
	}

	err = c.call(ctx, func(ctx context.Context) error {
		return svc.Videos.Rate(id, "like").Context(ctx).Do()
	})
	if err != nil {
		return "", Classify(err)
	}
	return fmt.Sprintf("Liked video %s.", id), nil
}

// Comment posts text as a top-level comment on the referenced video.
func (c *Client) Comment(ctx context.Context, videoURL, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", invalidInput("comment text required")
	}
	id, ok := ExtractVideoID(videoURL)
	if !ok {
		return "", invalidReference(videoURL)
	}

	svc, err := c.service(ctx)
	if err != nil {
		return "", Classify(err)
	}

	thread := &youtube.CommentThread{
		Snippet: &youtube.CommentThreadSnippet{
			VideoId: id,
			TopLevelComment: &youtube.Comment{
				Snippet: &youtube.CommentSnippet{TextOriginal: text},
			},
		},
	}

	err = c.call(ctx, func(ctx context.Context) error {
		_, err := svc.CommentThreads.Insert([]string{"snippet"}, thread).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", Classify(err)
	}
	return fmt.Sprintf("Commented on video %s.", id), nil
}

// Subscribe subscribes the user to the channel that published the
// referenced video.
func (c *Client) Subscribe(ctx context.Context, videoURL string) (string, error) {
	id, ok := ExtractVideoID(videoURL)
	if !ok {
		return "", invalidReference(videoURL)
	}

	channelID, found, err := c.ChannelForVideo(ctx, id)
	if err != nil {
		return "", Classify(err)
	}
	if !found {
		return "", &Error{Kind: KindNotFound, Message: fmt.Sprintf("no channel found for video %s", id)}
	}

	svc, err := c.service(ctx)
	if err != nil {
		return "", Classify(err)
	}

	sub := &youtube.Subscription{
		Snippet: &youtube.SubscriptionSnippet{
			ResourceId: &youtube.ResourceId{
				Kind:      "youtube#channel",
				ChannelId: channelID,
			},
		},
	}

	err = c.call(ctx, func(ctx context.Context) error {
		_, err := svc.Subscriptions.Insert([]string{"snippet"}, sub).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", Classify(err)
	}
	return fmt.Sprintf("Subscribed to channel %s.", channelID), nil
}

// ChannelForVideo resolves the channel id that published videoID.
// A video with no items is an expected outcome, reported as found=false
// rather than an error.
func (c *Client) ChannelForVideo(ctx context.Context, videoID string) (string, bool, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return "", false, Classify(err)
	}

	var channelID string
	var found bool
	err = c.call(ctx, func(ctx context.Context) error {
		resp, err := svc.Videos.List([]string{"snippet"}).
			Id(videoID).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
			found = false
			return nil
		}
		channelID = resp.Items[0].Snippet.ChannelId
		found = channelID != ""
		return nil
	})
	if err != nil {
		return "", false, Classify(err)
	}
	return channelID, found, nil
}
