package sqlinline

const QUpsertProfileByGoogleSub = `--sql 7c1f4b9e-2a6d-4f31-9b8e-5d0a3c7e1f42
insert into profiles (id, google_sub, email, name, picture, locale, is_pro, credits, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, false, $6::int, now(), now())
on conflict (google_sub) do update set
    email = excluded.email,
    name = excluded.name,
    picture = excluded.picture,
    locale = excluded.locale,
    updated_at = now()
returning id, google_sub, email, name, picture, locale, is_pro, credits, created_at, updated_at;
`

const QSelectProfileByID = `--sql 3e9d61a7-8f24-4c5b-a1d3-62b7f0c9e815
select id, google_sub, email, name, picture, locale, is_pro, credits, created_at, updated_at
from profiles
where id = $1::uuid
limit 1;
`

const QSelectProfileByEmail = `--sql b4a8f2c6-1d93-47e0-8c5a-f96e3d21b074
select id, google_sub, email, name, picture, locale, is_pro, credits, created_at, updated_at
from profiles
where lower(email) = lower($1::text)
limit 1;
`

const QUpdateProfileCredits = `--sql 9f5c3e81-6b27-4a9d-bc04-e1d8a2f6c593
update profiles
set credits = $2::int,
    updated_at = now()
where id = $1::uuid;
`

const QSetProfilePlan = `--sql d2e7a940-3c18-4f6b-95ad-78c1b5e0f326
update profiles
set is_pro = $2::boolean,
    credits = coalesce($3::int, credits),
    updated_at = now()
where id = $1::uuid;
`
