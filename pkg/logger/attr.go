package logger

import "log/slog"

// Attribute helpers keep key names consistent across packages.

func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

func Host(host string) slog.Attr { return slog.String("host", host) }

func Domain(domain string) slog.Attr { return slog.String("domain", domain) }

func Subdomain(sub string) slog.Attr { return slog.String("subdomain", sub) }

func Table(table string) slog.Attr { return slog.String("table", table) }

func RequestID(id string) slog.Attr { return slog.String("request_id", id) }

func Component(name string) slog.Attr { return slog.String("component", name) }
