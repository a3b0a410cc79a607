package mcpadapter

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/hsgmemory/engine/internal/hsg"
	mc "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// tool pairs an mcp-go tool declaration with its handler, named the same
// way ai/mcp.Tool{Tool,Handler} does.
type tool struct {
	Tool    mc.Tool
	Handler server.ToolHandlerFunc
}

// tools returns every entry in spec.md §6's MCP tool surface:
// openmemory_{query,store,reinforce,list,get}, the namespace-explicit
// {query,store,reinforce}_memory / list_namespaces aliases, and the
// temporal-fact tools.
func (s *Server) tools() []tool {
	return []tool{
		s.storeTool("openmemory_store"),
		s.storeTool("store_memory"),
		s.queryTool("openmemory_query"),
		s.queryTool("query_memory"),
		s.reinforceTool("openmemory_reinforce"),
		s.reinforceTool("reinforce_memory"),
		s.listTool(),
		s.getTool(),
		s.listNamespacesTool("list_namespaces"),
		s.insertTemporalFactTool(),
		s.queryTemporalFactsTool(),
	}
}

func (s *Server) storeTool(name string) tool {
	return tool{
		Tool: mc.NewTool(name,
			mc.WithDescription("Store content into the hierarchical semantic-graph memory, auto-routed across cognitive sectors."),
			mc.WithString("content", mc.Description("Text to store"), mc.Required()),
			mc.WithString("namespace", mc.Description("Namespace to store into; defaults to global")),
			mc.WithString("tags", mc.Description("Comma-separated tags")),
		),
		Handler: func(ctx context.Context, req mc.CallToolRequest) (*mc.CallToolResult, error) {
			content := req.GetString("content", "")
			if content == "" {
				return mc.NewToolResultError("content is required"), nil
			}
			ns := req.GetString("namespace", "global")
			tags := splitCSV(req.GetString("tags", ""))

			result, err := s.engine.Store(ctx, hsg.StoreRequest{
				Content:    content,
				Namespaces: []string{ns},
				Tags:       tags,
			})
			if err != nil {
				return errResult(err), nil
			}
			out, _ := json.Marshal(result)
			return jsonResult(string(out)), nil
		},
	}
}

func (s *Server) queryTool(name string) tool {
	return tool{
		Tool: mc.NewTool(name,
			mc.WithDescription("Query the memory store via hybrid vector/keyword/BM25/salience retrieval."),
			mc.WithString("query", mc.Description("Query text"), mc.Required()),
			mc.WithString("namespace", mc.Description("Namespace to search; defaults to global")),
			mc.WithString("k", mc.Description("Max results, default 8")),
		),
		Handler: func(ctx context.Context, req mc.CallToolRequest) (*mc.CallToolResult, error) {
			query := req.GetString("query", "")
			if query == "" {
				return mc.NewToolResultError("query is required"), nil
			}
			ns := req.GetString("namespace", "global")
			k, _ := strconv.Atoi(req.GetString("k", "8"))

			hits, err := s.engine.Query(ctx, hsg.QueryRequest{
				Text:    query,
				K:       k,
				Filters: hsg.QueryFilters{Namespaces: []string{ns}},
			})
			if err != nil {
				return errResult(err), nil
			}
			out, _ := json.Marshal(hits)
			return jsonResult(string(out)), nil
		},
	}
}

func (s *Server) reinforceTool(name string) tool {
	return tool{
		Tool: mc.NewTool(name,
			mc.WithDescription("Reinforce a memory's salience, as if it had just been accessed."),
			mc.WithString("id", mc.Description("Memory id"), mc.Required()),
			mc.WithString("boost", mc.Description("Boost amount, default engine configured default")),
		),
		Handler: func(ctx context.Context, req mc.CallToolRequest) (*mc.CallToolResult, error) {
			id := req.GetString("id", "")
			if id == "" {
				return mc.NewToolResultError("id is required"), nil
			}
			boost := s.engine.DefaultReinforceBoost()
			if raw := req.GetString("boost", ""); raw != "" {
				if v, err := strconv.ParseFloat(raw, 64); err == nil {
					boost = v
				}
			}
			if err := s.engine.Reinforce(ctx, id, boost); err != nil {
				return errResult(err), nil
			}
			return jsonResult(`{"ok":true}`), nil
		},
	}
}

func (s *Server) listTool() tool {
	return tool{
		Tool: mc.NewTool("openmemory_list",
			mc.WithDescription("List stored memories in a namespace."),
			mc.WithString("namespace", mc.Description("Namespace to list; defaults to global")),
			mc.WithString("limit", mc.Description("Max results, default 50")),
			mc.WithString("offset", mc.Description("Offset, default 0")),
		),
		Handler: func(ctx context.Context, req mc.CallToolRequest) (*mc.CallToolResult, error) {
			ns := req.GetString("namespace", "global")
			limit, _ := strconv.Atoi(req.GetString("limit", "50"))
			offset, _ := strconv.Atoi(req.GetString("offset", "0"))

			mems, err := s.engine.ListMemories(ctx, []string{ns}, nil, offset, limit)
			if err != nil {
				return errResult(err), nil
			}
			out, _ := json.Marshal(mems)
			return jsonResult(string(out)), nil
		},
	}
}

func (s *Server) getTool() tool {
	return tool{
		Tool: mc.NewTool("openmemory_get",
			mc.WithDescription("Fetch a single memory by id."),
			mc.WithString("id", mc.Description("Memory id"), mc.Required()),
		),
		Handler: func(ctx context.Context, req mc.CallToolRequest) (*mc.CallToolResult, error) {
			id := req.GetString("id", "")
			if id == "" {
				return mc.NewToolResultError("id is required"), nil
			}
			mem, err := s.engine.Get(ctx, id)
			if err != nil {
				return errResult(err), nil
			}
			out, _ := json.Marshal(mem)
			return jsonResult(string(out)), nil
		},
	}
}

func (s *Server) listNamespacesTool(name string) tool {
	return tool{
		Tool: mc.NewTool(name,
			mc.WithDescription("List every known namespace."),
		),
		Handler: func(ctx context.Context, req mc.CallToolRequest) (*mc.CallToolResult, error) {
			nss, err := s.engine.ListNamespaces(ctx)
			if err != nil {
				return errResult(err), nil
			}
			out, _ := json.Marshal(nss)
			return jsonResult(string(out)), nil
		},
	}
}

func (s *Server) insertTemporalFactTool() tool {
	return tool{
		Tool: mc.NewTool("insert_temporal_fact",
			mc.WithDescription("Insert a (subject, predicate, object) fact, superseding any currently-valid value."),
			mc.WithString("subject", mc.Required()),
			mc.WithString("predicate", mc.Required()),
			mc.WithString("object", mc.Required()),
			mc.WithString("namespace", mc.Description("Namespace; defaults to global")),
			mc.WithString("confidence", mc.Description("0..1, default 1")),
		),
		Handler: func(ctx context.Context, req mc.CallToolRequest) (*mc.CallToolResult, error) {
			confidence, _ := strconv.ParseFloat(req.GetString("confidence", "1"), 64)
			fact, err := s.engine.InsertTemporalFact(ctx, hsg.TemporalFactRequest{
				Subject:    req.GetString("subject", ""),
				Predicate:  req.GetString("predicate", ""),
				Object:     req.GetString("object", ""),
				Namespace:  req.GetString("namespace", "global"),
				Confidence: confidence,
			})
			if err != nil {
				return errResult(err), nil
			}
			out, _ := json.Marshal(fact)
			return jsonResult(string(out)), nil
		},
	}
}

func (s *Server) queryTemporalFactsTool() tool {
	return tool{
		Tool: mc.NewTool("query_temporal_facts",
			mc.WithDescription("Query temporal facts, optionally as-of a point in time."),
			mc.WithString("subject", mc.Description("Subject filter")),
			mc.WithString("predicate", mc.Description("Predicate filter")),
			mc.WithString("namespace", mc.Description("Namespace filter")),
			mc.WithString("at", mc.Description("Unix timestamp to query as-of; omit for the full timeline")),
		),
		Handler: func(ctx context.Context, req mc.CallToolRequest) (*mc.CallToolResult, error) {
			subject := optionalString(req, "subject")
			predicate := optionalString(req, "predicate")
			namespace := optionalString(req, "namespace")

			if raw := req.GetString("at", ""); raw != "" {
				at, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return mc.NewToolResultError("invalid at"), nil
				}
				facts, err := s.engine.QueryTemporalFactsAt(ctx, subject, predicate, namespace, at)
				if err != nil {
					return errResult(err), nil
				}
				out, _ := json.Marshal(facts)
				return jsonResult(string(out)), nil
			}

			facts, err := s.engine.Timeline(ctx, subject, predicate, namespace)
			if err != nil {
				return errResult(err), nil
			}
			out, _ := json.Marshal(facts)
			return jsonResult(string(out)), nil
		},
	}
}

func optionalString(req mc.CallToolRequest, key string) *string {
	v := req.GetString(key, "")
	if v == "" {
		return nil
	}
	return &v
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
