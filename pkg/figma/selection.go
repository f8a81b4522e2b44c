package figma

import (
	"context"
	"sync"
	"time"

	"github.com/kataras/figma-textstyle/pkg/host"
	"github.com/kataras/figma-textstyle/pkg/logging"
)

// DefaultPollInterval is how often Watch checks the file for a new revision.
const DefaultPollInterval = 5 * time.Second

// Selection implements host.SelectionProvider over a Figma file. The
// selected nodes are NodeIDs or, when empty, the whole document. Each
// selected node is followed by the text nodes it contains.
type Selection struct {
	Client   *Client
	FileKey  string
	NodeIDs  []string
	Interval time.Duration  // zero means DefaultPollInterval
	Logger   logging.Logger // nil = no logging

	mu       sync.Mutex
	fileName string
	rev      Revision

	changes chan struct{}
}

var _ host.SelectionProvider = (*Selection)(nil)

// NewSelection returns a selection of nodeIDs in the file.
func NewSelection(client *Client, fileKey string, nodeIDs []string) *Selection {
	return &Selection{
		Client:  client,
		FileKey: fileKey,
		NodeIDs: nodeIDs,
		changes: make(chan struct{}, 1),
	}
}

// Selection implements host.SelectionProvider. It fetches the nodes on
// every call.
func (s *Selection) Selection(ctx context.Context) ([]host.Node, error) {
	if len(s.NodeIDs) == 0 {
		file, err := s.Client.GetFile(ctx, s.FileKey)
		if err != nil {
			return nil, err
		}
		s.remember(file.Name, Revision{Version: file.Version, LastModified: file.LastModified})
		return Flatten(&file.Document, file.Styles), nil
	}

	resp, err := s.Client.GetFileNodes(ctx, s.FileKey, s.NodeIDs)
	if err != nil {
		return nil, err
	}
	s.remember(resp.Name, Revision{Version: resp.Version, LastModified: resp.LastModified})

	var nodes []host.Node
	for _, id := range s.NodeIDs {
		data := resp.Nodes[id]
		if data == nil {
			s.warnf("Node %s not found in file %s", id, s.FileKey)
			continue
		}
		nodes = append(nodes, Flatten(&data.Document, data.Styles)...)
	}
	return nodes, nil
}

// FileName returns the name of the file as of the last fetch.
func (s *Selection) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

func (s *Selection) remember(name string, rev Revision) {
	s.mu.Lock()
	s.fileName = name
	s.rev = rev
	s.mu.Unlock()
}

// Changes implements host.SelectionProvider. Events are only produced
// while Watch runs.
func (s *Selection) Changes() <-chan struct{} {
	return s.changes
}

// Watch polls the file revision until ctx is done and signals Changes
// whenever the version or modification time moves. Polling errors are
// logged and retried on the next tick. Changes is closed on return.
func (s *Selection) Watch(ctx context.Context) {
	defer close(s.changes)

	interval := s.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		rev, err := s.Client.Revision(ctx, s.FileKey, s.NodeIDs)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.warnf("Failed to poll file %s: %v", s.FileKey, err)
			continue
		}

		s.mu.Lock()
		changed := s.rev != (Revision{}) && rev != s.rev
		s.rev = rev
		s.mu.Unlock()

		if changed {
			s.infof("File %s changed (version %s)", s.FileKey, rev.Version)
			select {
			case s.changes <- struct{}{}:
			default:
			}
		}
	}
}

func (s *Selection) infof(f string, a ...any) {
	if s.Logger != nil {
		s.Logger.Infof(f, a...)
	}
}

func (s *Selection) warnf(f string, a ...any) {
	if s.Logger != nil {
		s.Logger.Warnf(f, a...)
	}
}
