// Package seed holds the records written the first time a store is initialized.
package seed

import (
	"fmt"
	"rab-dashboard/internal/domain"
	"strings"
	"time"
)

// PasswordHasher turns a plaintext seed password into its stored form.
type PasswordHasher func(password string) (string, error)

// Data is one full set of seed collections.
type Data struct {
	Users         []domain.User
	Projects      []domain.Project
	RabDocuments  []domain.BudgetDocument
	BqDocuments   []domain.BudgetDocument
	PriceDatabase []domain.PriceItem
	WorkItems     []domain.WorkItem
	Posts         []domain.Post
}

var seededAt = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

// Build returns fresh seed collections. Passwords are hashed with hash.
func Build(hash PasswordHasher) (*Data, error) {
	users, err := users(hash)
	if err != nil {
		return nil, err
	}

	rab := rabDocuments()
	return &Data{
		Users:         users,
		Projects:      projects(),
		RabDocuments:  rab,
		BqDocuments:   bqFromRab(rab),
		PriceDatabase: priceDatabase(),
		WorkItems:     workItems(),
		Posts:         posts(),
	}, nil
}

func users(hash PasswordHasher) ([]domain.User, error) {
	type seedUser struct {
		user     domain.User
		password string
	}
	seeds := []seedUser{
		{
			user: domain.User{
				ID: "usr-1", Username: "admin.utama", Name: "Admin Utama", Email: "admin@proyekku.com",
				Role: "Admin", Status: domain.StatusActive,
				LastLogin:   time.Date(2024, 7, 20, 10, 0, 0, 0, time.UTC),
				PhotoURL:    "https://i.pravatar.cc/150?u=admin@proyekku.com",
				Permissions: domain.NewStringSet(domain.AllPermissions...),
				Plant:       domain.NewStringSet(domain.AllPlants),
			},
			password: "12345",
		},
		{
			user: domain.User{
				ID: "usr-2", Username: "bambang.obm", Name: "Bambang OBM", Email: "obm@proyekku.com",
				Role: "OBM", Status: domain.StatusActive,
				LastLogin:   time.Date(2024, 7, 19, 14, 30, 0, 0, time.UTC),
				PhotoURL:    "https://i.pravatar.cc/150?u=obm@proyekku.com",
				Permissions: domain.NewStringSet(domain.PermProjView),
				Plant:       domain.NewStringSet("Sunter"),
			},
			password: "password",
		},
		{
			user: domain.User{
				ID: "usr-3", Username: "gatot.proyek", Name: "Gatot Proyek", Email: "gas.project@proyekku.com",
				Role: "GAS Project", Status: domain.StatusActive,
				LastLogin: time.Date(2024, 7, 18, 9, 0, 0, 0, time.UTC),
				PhotoURL:  "https://i.pravatar.cc/150?u=gas.project@proyekku.com",
				Permissions: domain.NewStringSet(
					domain.PermBQView, domain.PermBQCreate, domain.PermBQEdit,
					domain.PermRABView, domain.PermRABCreate, domain.PermRABEdit,
					domain.PermProjView, domain.PermProjEdit, domain.PermDBView,
				),
				Plant: domain.NewStringSet("Cikarang P3", "Karawang P4"),
			},
			password: "password",
		},
	}

	out := make([]domain.User, 0, len(seeds))
	for _, s := range seeds {
		hashed, err := hash(s.password)
		if err != nil {
			return nil, fmt.Errorf("hash seed password for %s: %w", s.user.Username, err)
		}
		u := s.user
		u.PasswordHash = hashed
		out = append(out, u)
	}
	return out, nil
}

func projects() []domain.Project {
	return []domain.Project{
		{
			ID: "proj-init-1", Name: "Website E-commerce Klien A",
			Team:   []string{"Andi", "Budi", "Citra"},
			Status: "In Progress", DueDate: "2024-09-30", Progress: 75,
			Group: "Pengembangan IT", Description: "Proyek e-commerce B2C.",
			Phases: []domain.Phase{},
		},
	}
}

func rabDocuments() []domain.BudgetDocument {
	return []domain.BudgetDocument{
		{
			ID: "rab-init-1", EMPR: "RAB001",
			ProjectName: "Pembangunan Kantor Cabang Utama di Jakarta Selatan",
			PIC:         "Andi", SurveyDate: "2023-05-10", ReceivedDate: "2023-05-15", FinishDate: "2024-01-10",
			Status: "Selesai", TenderValue: 1200000000, Keterangan: "Selesai lebih cepat dari jadwal.",
			SLA: 0, PDFReady: true, CreatorName: "Admin", ApproverName: "Manajer", WorkDuration: 180, IsLocked: true,
			DetailItems: []domain.DetailItem{
				{
					ID: "cat-1", Type: domain.DetailCategory, UraianPekerjaan: "PEKERJAAN PERSIAPAN",
					IsSaved: true, ItemNumber: "I",
				},
				{
					ID: "item-1", Type: domain.DetailItemRow, UraianPekerjaan: "Pembersihan Lokasi dan Pematokan",
					Volume: 1, Satuan: "Ls", HargaSatuan: 5000000, IsSaved: true, ItemNumber: "1",
					Ahs: []domain.AhsComponent{
						{ID: "ahs-1", ComponentName: "Mandor", Quantity: 1, Unit: "HOK", UnitPrice: 200000, Category: "Jasa Pekerja", Source: "db"},
					},
				},
			},
		},
	}
}

// bqFromRab deep-copies the RAB seed into the BQ id namespace.
func bqFromRab(rab []domain.BudgetDocument) []domain.BudgetDocument {
	out := make([]domain.BudgetDocument, 0, len(rab))
	for i, doc := range rab {
		doc.ID = fmt.Sprintf("bq-init-%d", i+1)
		doc.EMPR = strings.Replace(doc.EMPR, "RAB", "BQ", 1)
		doc.DetailItems = copyItems(doc.DetailItems)
		out = append(out, doc)
	}
	return out
}

func copyItems(items []domain.DetailItem) []domain.DetailItem {
	out := make([]domain.DetailItem, len(items))
	for i, item := range items {
		if item.Ahs != nil {
			item.Ahs = append([]domain.AhsComponent(nil), item.Ahs...)
		}
		out[i] = item
	}
	return out
}

func priceDatabase() []domain.PriceItem {
	return []domain.PriceItem{
		{ID: "pd-init-1", Category: "Material", ItemName: "Semen Portland (50kg)", Unit: "sak", UnitPrice: 65000, PriceSource: "Toko Bangunan A", LastUpdated: seededAt},
		{ID: "pd-init-2", Category: "Jasa Pekerja", ItemName: "Tukang Batu", Unit: "HOK", UnitPrice: 150000, LastUpdated: seededAt},
	}
}

func workItems() []domain.WorkItem {
	return []domain.WorkItem{
		{ID: "wi-init-1", Name: "Pembersihan Lokasi dan Pematokan", Category: "Sipil", Unit: "Ls", DefaultPrice: 5000000, Source: "AHS", LastUpdated: seededAt, DefaultAhs: []domain.AhsComponent{}},
	}
}

func posts() []domain.Post {
	return []domain.Post{
		{
			ID: "post-init-1", Title: "Selamat datang di Dashboard Proyek",
			Content:   "<p>Gunakan menu RAB, BQ, dan Proyek untuk mengelola anggaran dan progres pekerjaan.</p>",
			Author:    "Admin Utama",
			CreatedAt: seededAt,
		},
	}
}
