package catalog

const documentSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "fields": {
      "type": "array",
      "items": { "$ref": "#/definitions/field" }
    },
    "templates": {
      "type": "object",
      "additionalProperties": {
        "oneOf": [
          { "type": "string", "minLength": 1 },
          { "$ref": "#/definitions/template" }
        ]
      }
    }
  },
  "definitions": {
    "field": {
      "type": "object",
      "required": ["id", "label", "type"],
      "additionalProperties": false,
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "label": { "type": "string", "minLength": 1 },
        "type": { "type": "string", "enum": __FIELD_TYPES__ },
        "validation": { "type": "object" },
        "options": { "type": "array", "items": { "type": "string" } },
        "keywords": { "type": "array", "items": { "type": "string" } },
        "patterns": {
          "type": "array",
          "items": {
            "type": "array",
            "minItems": 1,
            "items": { "$ref": "#/definitions/token" }
          }
        }
      }
    },
    "token": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "norm": { "type": "string" },
        "lower": { "type": "string" },
        "lemma": { "type": "string" },
        "in": { "type": "array", "items": { "type": "string" } },
        "pos": { "type": "array", "items": { "type": "string" } },
        "likeNum": { "type": "boolean" },
        "op": { "enum": ["", "?", "*", "+"] }
      }
    },
    "template": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "alias": { "type": "string" },
        "seeds": { "type": "array", "items": { "type": "string" } },
        "fields": {
          "type": "array",
          "items": {
            "oneOf": [
              { "type": "string", "minLength": 1 },
              {
                "type": "object",
                "required": ["id"],
                "additionalProperties": false,
                "properties": {
                  "id": { "type": "string", "minLength": 1 },
                  "validation": { "type": "object" }
                }
              }
            ]
          }
        }
      }
    }
  }
}`
