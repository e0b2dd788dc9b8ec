package htmlsanitizer

// sanitizeAttributes is the top-level driver over one element's attributes.
// It resolves each present attribute against rules (falling back to the "*"
// catch-all), dispatches by value shape, and finally enforces
// required-attribute presence with default-value injection. Returning false
// means the element is gone — the caller must stop processing it.
func sanitizeAttributes(e nodeElement, tag string, rules map[string]AttrRule, h *handlers) (bool, error) {
	if len(e.n.Attr) > 0 {
		// Snapshot names: sanitizeValue may rewrite e.n.Attr in place, and
		// removeAttr/setAttr mutate the same slice sanitizeAttributes is
		// iterating, so iterate over a copy of the names seen up front.
		names := make([]string, len(e.n.Attr))
		for i, a := range e.n.Attr {
			names[i] = a.Key
		}

		for _, name := range names {
			if !e.hasAttr(name) {
				// A prior iteration's handler (e.g. dropDuplicates on a
				// different attribute can't happen, but discardAttribute
				// or applyDefaultValue's delete path can) already removed
				// this one.
				continue
			}

			rule, ok := rules[name]
			if !ok {
				rule, ok = rules["*"]
			}
			if !ok {
				global, _, err := h.handleAttribute(e, tag, name)
				if err != nil {
					return false, err
				}
				if !global {
					return false, nil
				}
				continue
			}

			proceed, err := sanitizeValue(e, tag, name, rule, h)
			if err != nil {
				return false, err
			}
			if !proceed {
				return false, nil
			}
		}
	}

	for name, rule := range rules {
		if name == "*" || !rule.Required {
			continue
		}
		if e.hasAttr(name) {
			continue
		}
		global, _, err := h.handleAttributeValue(e, tag, name, rule)
		if err != nil {
			return false, err
		}
		if !global {
			return false, nil
		}
	}

	return true, nil
}

// sanitizeValue validates and rewrites one present attribute's value per
// its resolved rule, enforcing MaxLength before mode-specific parsing.
func sanitizeValue(e nodeElement, tag, attr string, rule AttrRule, h *handlers) (bool, error) {
	value := e.getAttr(attr)

	if rule.MaxLength > 0 && len(value) > rule.MaxLength {
		global, local, err := h.handleValueTooLong(e, tag, attr, rule, rule.MaxLength)
		if err != nil {
			return false, err
		}
		if !global {
			return false, nil
		}
		if !local {
			return true, nil
		}
		value = e.getAttr(attr)
		if value == "" {
			return true, nil
		}
	}

	switch rule.Mode {
	case ModeSet:
		return sanitizeSetValue(e, tag, attr, rule, h)
	case ModeRecord:
		return sanitizeRecordValue(e, tag, attr, rule, h)
	default: // ModeSimple (and the zero value)
		if Matches(rule.Value, value) {
			return true, nil
		}
		global, _, err := h.handleAttributeValue(e, tag, attr, rule)
		return global, err
	}
}

// sanitizeSetValue implements spec.md §4.6.1.
func sanitizeSetValue(e nodeElement, tag, attr string, rule AttrRule, h *handlers) (bool, error) {
	tokens := parseSet(e.getAttr(attr), rule.Delimiter)

	if rule.MaxEntries > 0 && len(tokens) > rule.MaxEntries {
		keep, global, local, escalated, err := h.handleCollectionTooMany(e, tag, attr, rule, len(tokens))
		if err != nil {
			return false, err
		}
		if escalated {
			return global, nil
		}
		if !global {
			return false, nil
		}
		if !local {
			return true, nil
		}
		tokens = discardExtraStrings(tokens, keep)
	}

	var out []string
	for _, tok := range tokens {
		if Matches(rule.Values, tok) {
			out = append(out, tok)
			continue
		}
		global, local, escalated, err := h.handleSetValue(e, tag, attr, rule)
		if err != nil {
			return false, err
		}
		if escalated {
			return global, nil
		}
		if !global {
			return false, nil
		}
		if local {
			out = append(out, tok)
		}
	}

	e.setAttr(attr, joinNonEmpty(out, rule.Delimiter))
	return true, nil
}

// sanitizeRecordValue implements spec.md §4.6.2.
func sanitizeRecordValue(e nodeElement, tag, attr string, rule AttrRule, h *handlers) (bool, error) {
	pairs := parseRecord(e.getAttr(attr), rule.EntrySeparator, rule.KeyValueSeparator)

	if rule.MaxEntries > 0 && len(pairs) > rule.MaxEntries {
		keep, global, local, escalated, err := h.handleCollectionTooMany(e, tag, attr, rule, len(pairs))
		if err != nil {
			return false, err
		}
		if escalated {
			return global, nil
		}
		if !global {
			return false, nil
		}
		if !local {
			return true, nil
		}
		pairs = discardExtraPairs(pairs, keep)
	}

	seen := make(map[string]bool)
	var out []kvPair
	for _, p := range pairs {
		if seen[p.key] {
			adjusted, global, local, escalated, err := h.handleRecordDuplicate(e, tag, attr, rule, out, p.key)
			if err != nil {
				return false, err
			}
			if escalated {
				return global, nil
			}
			if !global {
				return false, nil
			}
			out = adjusted
			if !local {
				continue
			}
		}

		pairRule, ok := rule.KeyValues[p.key]
		if !ok || !Matches(pairRule, p.val) {
			global, _, escalated, err := h.handleRecordValue(e, tag, attr, rule)
			if err != nil {
				return false, err
			}
			if escalated {
				return global, nil
			}
			if !global {
				return false, nil
			}
			continue
		}

		out = append(out, p)
		seen[p.key] = true
	}

	e.setAttr(attr, joinPairs(out, rule.KeyValueSeparator, rule.EntrySeparator))
	return true, nil
}

func joinNonEmpty(tokens []string, sep string) string {
	out := ""
	for i, t := range tokens {
		if i > 0 {
			out += sep
		}
		out += t
	}
	return out
}

func joinPairs(pairs []kvPair, kvSep, entrySep string) string {
	out := ""
	for i, p := range pairs {
		if i > 0 {
			out += entrySep
		}
		out += p.key + kvSep + p.val
	}
	return out
}
