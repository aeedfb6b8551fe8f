package service

import (
	"openbid/internal/entity"
)

func mapJob(j *entity.Job) *entity.JobOutputModel {
	out := &entity.JobOutputModel{
		Id:           j.Id.String(),
		PosterId:     j.PosterId.String(),
		Title:        j.Title,
		Description:  j.Description,
		BudgetAmount: j.BudgetAmount,
		Latitude:     j.Latitude,
		Longitude:    j.Longitude,
		Address:      j.Address,
		Status:       j.Status,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
	if j.AwardedBidId != nil {
		out.AwardedBidId = j.AwardedBidId.String()
	}
	if j.AwardedProviderId != nil {
		out.AwardedProviderId = j.AwardedProviderId.String()
	}

	return out
}

func mapJobs(jobs []entity.Job) []entity.JobOutputModel {
	s := make([]entity.JobOutputModel, 0)
	for _, job := range jobs {
		s = append(s, *mapJob(&job))
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:         b.Id.String(),
		JobId:      b.JobId.String(),
		ProviderId: b.ProviderId.String(),
		Amount:     b.Amount,
		Note:       b.Note,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func mapBids(bids []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, bid := range bids {
		s = append(s, *mapBid(&bid))
	}

	return s
}

func mapUser(u *entity.User) *entity.UserOutputModel {
	return &entity.UserOutputModel{
		Id:          u.Id.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		UserType:    u.UserType,
		KycStatus:   u.KycStatus,
		CreatedAt:   u.CreatedAt,
	}
}
