// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/vedao/logdb"
	"github.com/vechain/vedao/thor"
)

// FilteredEvent only comes from one contract
type FilteredEvent struct {
	Address thor.Address    `json:"address"`
	Topics  []*thor.Bytes32 `json:"topics"`
	Data    string          `json:"data"`
	Meta    LogMeta         `json:"meta"`
}

type LogMeta struct {
	BlockNumber    uint32 `json:"blockNumber"`
	BlockTimestamp uint64 `json:"blockTimestamp"`
	LogIndex       uint32 `json:"logIndex"`
}

// ConvertEvent converts a logdb.Event into a json format Event.
func ConvertEvent(event *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: event.Address,
		Topics:  make([]*thor.Bytes32, 0),
		Data:    hexutil.Encode(event.Data),
		Meta: LogMeta{
			BlockNumber:    event.BlockNumber,
			BlockTimestamp: event.BlockTime,
			LogIndex:       event.Index,
		},
	}
	for _, topic := range event.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, topic)
		}
	}
	return fe
}

type TopicSet struct {
	Topic0 *thor.Bytes32 `json:"topic0"`
	Topic1 *thor.Bytes32 `json:"topic1"`
	Topic2 *thor.Bytes32 `json:"topic2"`
	Topic3 *thor.Bytes32 `json:"topic3"`
	Topic4 *thor.Bytes32 `json:"topic4"`
}

type EventCriteria struct {
	Address *thor.Address `json:"address"`
	TopicSet
}

type Options struct {
	Offset uint64  `json:"offset,omitempty"`
	Limit  *uint64 `json:"limit,omitempty"`
}

func (o *Options) Validate(limit uint64) error {
	if o == nil {
		return nil
	}
	if o.Limit != nil && *o.Limit > limit {
		return fmt.Errorf("options.limit exceeds the maximum allowed value of %d", limit)
	}
	if o.Offset > math.MaxInt64 {
		return fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64))
	}
	return nil
}

type Range struct {
	Unit logdb.RangeType `json:"unit,omitempty"`
	From *uint64         `json:"from,omitempty"`
	To   *uint64         `json:"to,omitempty"`
}

func (r *Range) Validate() error {
	if r == nil {
		return nil
	}
	if r.Unit != "" && r.Unit != logdb.Block && r.Unit != logdb.Time {
		return fmt.Errorf("filter.range.unit must be either 'block' or 'time', got '%s'", r.Unit)
	}
	if r.From != nil && r.To != nil && *r.From > *r.To {
		return fmt.Errorf("filter.range.to must be greater than or equal to filter.range.from")
	}
	return nil
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet,omitempty"`
	Range       *Range           `json:"range,omitempty"`
	Options     *Options         `json:"options,omitempty"`
	Order       logdb.Order      `json:"order,omitempty"`
}

// convertEventFilter converts a validated filter. Options must be set.
func convertEventFilter(filter *EventFilter) *logdb.EventFilter {
	f := &logdb.EventFilter{
		Options: &logdb.Options{
			Offset: filter.Options.Offset,
			Limit:  *filter.Options.Limit,
		},
		Order: filter.Order,
	}
	if r := filter.Range; r != nil {
		unit := r.Unit
		if unit == "" {
			unit = logdb.Block
		}
		f.Range = &logdb.Range{Unit: unit, To: math.MaxInt64}
		if r.From != nil {
			f.Range.From = *r.From
		}
		if r.To != nil {
			f.Range.To = *r.To
		}
	}
	for _, criterion := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: criterion.Address,
			Topics: [5]*thor.Bytes32{
				criterion.Topic0,
				criterion.Topic1,
				criterion.Topic2,
				criterion.Topic3,
				criterion.Topic4,
			},
		})
	}
	return f
}
