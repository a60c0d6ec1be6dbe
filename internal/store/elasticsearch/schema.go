package elasticsearch

// indexSettings is the body of create index requests. Every string field is
// full text searchable and carries a keyword sub-field for sorting.
const indexSettings = `{
	"settings": {
		"index.mapping.ignore_malformed": true
	},
	"mappings": {
		"dynamic_templates": [
			{
				"strings": {
					"match_mapping_type": "string",
					"mapping": {
						"type": "text",
						"fields": {
							"keyword": {
								"type": "keyword",
								"ignore_above": 256
							}
						}
					}
				}
			}
		],
		"properties": {
			"id": {
				"type": "text",
				"fields": {
					"keyword": {
						"type": "keyword",
						"ignore_above": 256
					}
				}
			},
			"name": {
				"type": "text",
				"fields": {
					"keyword": {
						"type": "keyword",
						"ignore_above": 256
					}
				}
			},
			"attributes": {
				"properties": {
					"key": {
						"type": "keyword"
					},
					"value": {
						"type": "text",
						"fields": {
							"keyword": {
								"type": "keyword",
								"ignore_above": 256
							}
						}
					}
				}
			}
		}
	}
}`
