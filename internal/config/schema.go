package config

// configSchema validates the raw configuration document before it is
// decoded. Strictness is deliberate here — unknown keys and wrong types in
// the config file are operator mistakes worth failing on, unlike click
// records, which are tolerated.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "listen": {"type": "string"},
    "journal": {"type": "string"},
    "interval": {"type": "integer", "minimum": 0},
    "markup": {"enum": ["none", "pango"]},
    "refresh_signals": {
      "type": "array",
      "items": {"type": "integer", "minimum": 1, "maximum": 64},
      "maxItems": 2
    },
    "blocks": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "instance": {"type": "string"},
          "command": {"type": "string"},
          "interval": {"type": "integer", "minimum": 0},
          "signal": {"type": "integer", "minimum": 0, "maximum": 64},
          "label": {"type": "string"},
          "full_text": {"type": "string"},
          "short_text": {"type": "string"},
          "color": {"type": "string", "pattern": "^#[0-9a-fA-F]{6}$"},
          "min_width": {"type": "string"},
          "align": {"enum": ["left", "right", "center"]},
          "markup": {"enum": ["none", "pango"]},
          "separator": {"type": "boolean"}
        },
        "additionalProperties": false
      }
    }
  },
  "required": ["blocks"],
  "additionalProperties": false
}`
