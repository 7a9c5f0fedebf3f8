// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/vechain/vedao/api/events"
	"github.com/vechain/vedao/api/restutil"
	"github.com/vechain/vedao/chain"
	"github.com/vechain/vedao/logdb"
	"github.com/vechain/vedao/thor"
)

// maxBlocksPerRead bounds the block range scanned by one read.
const maxBlocksPerRead = 100

type msgReader interface {
	Read(ctx context.Context) (msgs []any, hasMore bool, err error)
}

// eventReader reads the indexed events of committed blocks after its position.
type eventReader struct {
	repo     *chain.Repository
	db       *logdb.LogDB
	criteria *logdb.EventCriteria
	pos      uint32
}

func newEventReader(repo *chain.Repository, db *logdb.LogDB, pos uint32, criteria *logdb.EventCriteria) *eventReader {
	return &eventReader{
		repo:     repo,
		db:       db,
		criteria: criteria,
		pos:      pos,
	}
}

// Read returns the events of at most maxBlocksPerRead blocks. The writer of a
// block holds the only logdb connection until the block is indexed, so events
// of a committed head are visible here.
func (er *eventReader) Read(ctx context.Context) ([]any, bool, error) {
	head := er.repo.Head().Number
	if head <= er.pos {
		return nil, false, nil
	}
	to := head
	if to-er.pos > maxBlocksPerRead {
		to = er.pos + maxBlocksPerRead
	}

	filter := &logdb.EventFilter{
		Range: &logdb.Range{
			Unit: logdb.Block,
			From: uint64(er.pos) + 1,
			To:   uint64(to),
		},
	}
	if er.criteria != nil {
		filter.CriteriaSet = []*logdb.EventCriteria{er.criteria}
	}
	evs, err := er.db.FilterEvents(ctx, filter)
	if err != nil {
		return nil, false, err
	}

	msgs := make([]any, 0, len(evs))
	for _, ev := range evs {
		msgs = append(msgs, events.ConvertEvent(ev))
	}
	er.pos = to
	return msgs, to < head, nil
}

// parseEventReader builds a reader from the query: pos is the block after
// which events are delivered (head by default), addr and t0..t4 filter them.
func parseEventReader(repo *chain.Repository, db *logdb.LogDB, req *http.Request) (*eventReader, error) {
	head := repo.Head().Number
	pos, err := restutil.QueryUint64(req, "pos", uint64(head))
	if err != nil {
		return nil, err
	}
	if pos > uint64(head) {
		return nil, restutil.BadRequest(errors.Errorf("pos: beyond head #%d", head))
	}

	query := req.URL.Query()
	var criteria logdb.EventCriteria
	filtered := false
	if s := query.Get("addr"); s != "" {
		addr, err := thor.ParseAddress(s)
		if err != nil {
			return nil, restutil.BadRequest(errors.WithMessage(err, "addr"))
		}
		criteria.Address = addr
		filtered = true
	}
	for i := range criteria.Topics {
		name := fmt.Sprintf("t%d", i)
		s := query.Get(name)
		if s == "" {
			continue
		}
		topic, err := thor.ParseBytes32(s)
		if err != nil {
			return nil, restutil.BadRequest(errors.WithMessage(err, name))
		}
		criteria.Topics[i] = &topic
		filtered = true
	}

	if !filtered {
		return newEventReader(repo, db, uint32(pos), nil), nil
	}
	return newEventReader(repo, db, uint32(pos), &criteria), nil
}
