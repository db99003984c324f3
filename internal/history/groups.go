// Copyright (c) 2023-2025 The yakGPT Authors
// SPDX-License-Identifier: MIT

// Package history organizes chats into labeled recency buckets for the
// history sidebar.
package history

import (
	"math"
	"sort"
	"time"

	"github.com/Clueed/yakGPT/internal/model"
)

// =============================================================================
// DATE GROUPS
// =============================================================================

// DateGroup defines one recency bucket: chats whose age in whole days is at
// most DeltaDays belong to it, unless an earlier group already claimed them.
type DateGroup struct {
	DeltaDays int
	Label     string
}

// ChatGroup is a DateGroup populated with its member chats, newest first.
type ChatGroup struct {
	DateGroup
	Chats []*model.Chat
}

// DefaultDateGroups returns the standard five history buckets.
func DefaultDateGroups() []DateGroup {
	return []DateGroup{
		{DeltaDays: 0, Label: "Today"},
		{DeltaDays: 1, Label: "Yesterday"},
		{DeltaDays: 7, Label: "Last week"},
		{DeltaDays: 30, Label: "Last month"},
		{DeltaDays: 365, Label: "Last year"},
	}
}

// =============================================================================
// GROUPING
// =============================================================================

// GroupChatsByDate buckets chats into the given date groups.
//
// Chats are sorted by CreatedAt descending first, so each group lists its
// newest chats first. A chat's age is the elapsed time since creation rounded
// to whole days, not a calendar-day boundary: anything up to twelve hours old
// still counts as age 0. Groups are scanned in input order and the first
// group whose DeltaDays is >= the age wins (the bound is inclusive). Chats
// older than every group are excluded from the output, and only groups with
// at least one member are returned, in the same relative order as the input.
//
// Pure function of its inputs; callers inject now so tests can freeze it.
func GroupChatsByDate(now time.Time, chats []*model.Chat, groups []DateGroup) []ChatGroup {
	sorted := make([]*model.Chat, len(chats))
	copy(sorted, chats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	buckets := make([]ChatGroup, len(groups))
	for i, g := range groups {
		buckets[i] = ChatGroup{DateGroup: g}
	}

	for _, chat := range sorted {
		age := ageInDays(now, chat.CreatedAt)
		for i := range buckets {
			if age <= buckets[i].DeltaDays {
				buckets[i].Chats = append(buckets[i].Chats, chat)
				break
			}
		}
	}

	result := make([]ChatGroup, 0, len(buckets))
	for _, b := range buckets {
		if len(b.Chats) > 0 {
			result = append(result, b)
		}
	}
	return result
}

// ageInDays returns the elapsed time from createdAt to now, rounded to whole
// days.
func ageInDays(now, createdAt time.Time) int {
	return int(math.Round(now.Sub(createdAt).Hours() / 24))
}
