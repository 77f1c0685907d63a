package sqlinline

const QInsertLink = `--sql 2580ad19-8015-4094-b6cf-d199453b05f0
insert into tracked_links(id, code, target_url, utm_source, utm_medium, utm_campaign, created_by, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, $6::uuid, now())
returning id;
`

const QSelectLinkByCode = `--sql 0ca76726-e4ea-423d-8184-2622fb68871d
select id, code, target_url, utm_source, utm_medium, utm_campaign
from tracked_links
where code = $1::text;
`

const QListLinks = `--sql 9aa64dfa-5cb0-49ec-b2b7-f6f84719a511
select l.id, l.code, l.target_url, l.utm_source, l.utm_medium, l.utm_campaign, l.created_at, count(c.id)
from tracked_links l
left join link_clicks c on c.link_id = l.id
group by l.id, l.code, l.target_url, l.utm_source, l.utm_medium, l.utm_campaign, l.created_at
order by l.created_at desc
limit $1::int;
`

const QInsertLinkClick = `--sql 7d1455fc-6ebc-48e0-82c0-946181518c95
insert into link_clicks(id, link_id, country, referrer, user_agent, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, now());
`

const QLinkStatsByDay = `--sql 4c752f38-3d1d-47cb-b970-573c3335770f
select date_trunc('day', created_at)::date as day, coalesce(nullif(country, ''), 'unknown') as country, count(*)
from link_clicks
where link_id = $1::uuid
group by day, country
order by day desc, country asc;
`
