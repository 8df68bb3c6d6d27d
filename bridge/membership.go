package bridge

import "sort"

// membership maps a normalized channel name to the nicks believed to be in it.
// A channel is only tracked between its NAMES reply and the bridge leaving it.
type membership map[string]map[string]struct{}

// replace sets the member list of channel, creating it if needed.
func (m membership) replace(channel string, nicks []string) {
	set := make(map[string]struct{}, len(nicks))
	for _, nick := range nicks {
		set[nick] = struct{}{}
	}
	m[normalizeChannel(channel)] = set
}

// add returns false if channel is not tracked.
func (m membership) add(channel, nick string) bool {
	set, ok := m[normalizeChannel(channel)]
	if !ok {
		return false
	}
	set[nick] = struct{}{}
	return true
}

// remove reports whether the channel is tracked and whether nick was removed from it.
func (m membership) remove(channel, nick string) (tracked, removed bool) {
	set, ok := m[normalizeChannel(channel)]
	if !ok {
		return false, false
	}

	_, removed = set[nick]
	delete(set, nick)
	return true, removed
}

// rename moves oldNick to newNick in every tracked channel and returns those channels.
func (m membership) rename(oldNick, newNick string) []string {
	var channels []string
	for channel, set := range m {
		if _, ok := set[oldNick]; !ok {
			continue
		}
		delete(set, oldNick)
		set[newNick] = struct{}{}
		channels = append(channels, channel)
	}
	sort.Strings(channels)
	return channels
}

func (m membership) drop(channel string) {
	delete(m, normalizeChannel(channel))
}

// members returns the sorted member list of channel.
func (m membership) members(channel string) ([]string, bool) {
	set, ok := m[normalizeChannel(channel)]
	if !ok {
		return nil, false
	}

	nicks := make([]string, 0, len(set))
	for nick := range set {
		nicks = append(nicks, nick)
	}
	sort.Strings(nicks)
	return nicks, true
}
